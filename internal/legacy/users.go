package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/surveykeeper/internal/models"
)

// UserRecord is one entry of users.json.
type UserRecord struct {
	Nom      string `json:"nom"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	Sexe     string `json:"sexe"`
	Password string `json:"password"`
}

// UserDocument is the whole users.json file.
type UserDocument struct {
	Utilisateurs []UserRecord `json:"utilisateurs"`
}

// ReadUsers parses users.json. Record order is kept.
func ReadUsers(path string) ([]models.User, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc UserDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}

	users := make([]models.User, 0, len(doc.Utilisateurs))
	for _, r := range doc.Utilisateurs {
		users = append(users, models.User{
			Email:        r.Email,
			DisplayName:  r.Nom,
			Age:          r.Age,
			Sex:          models.Sex(r.Sexe),
			PasswordHash: r.Password,
		})
	}
	return users, nil
}

// WriteUsers replaces path with users in the users.json layout: four-space
// indentation, non-ASCII characters kept as is.
func WriteUsers(path string, users []models.User) error {
	doc := UserDocument{Utilisateurs: make([]UserRecord, 0, len(users))}
	for _, u := range users {
		doc.Utilisateurs = append(doc.Utilisateurs, UserRecord{
			Nom:      u.DisplayName,
			Email:    u.Email,
			Age:      u.Age,
			Sexe:     string(u.Sex),
			Password: u.PasswordHash,
		})
	}

	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		return enc.Encode(doc)
	})
}
