package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/usersadmin/console/internal/usertable"
)

type seedFile struct {
	Users []usertable.User `yaml:"users"`
}

// loadSeedFile reads users from a YAML document of the form
// `users: [{name, email, archived, roles: [{name}]}]`.
func loadSeedFile(path string) ([]usertable.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i := range doc.Users {
		if doc.Users[i].Roles == nil {
			doc.Users[i].Roles = []usertable.Role{}
		}
	}
	return doc.Users, nil
}

func defaultSeedUsers() []usertable.User {
	return []usertable.User{
		{Name: "Ann Martin", Email: "ann@example.com", Roles: []usertable.Role{{Name: "admin"}, {Name: "editor"}}},
		{Name: "Bruno Petit", Email: "bruno@example.com", Roles: []usertable.Role{{Name: "editor"}}},
		{Name: "Chloé Durand", Email: "chloe@example.com", Archived: true, Roles: []usertable.Role{{Name: "viewer"}}},
		{Name: "David Leroy", Email: "david@example.com", Roles: []usertable.Role{}},
	}
}
