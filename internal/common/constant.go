package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on results API requests.
const AccessTokenHeaderName = "access_token"

// LegacyEmailPrefix marks response rows imported from the spreadsheet
// whose author could not be matched to a registered user.
const LegacyEmailPrefix = "legacy:"
