// Package cli provides the interactive terminal front end of the survey.
//
// The REPL drives the same session.Controller as the web UI against the
// local store: one State lives for the duration of the program, exactly as
// one browser session does. Passwords are read without echo.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli
