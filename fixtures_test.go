package gridpager

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type (
	tAddress struct {
		City   string
		Street string
	}

	tTag struct {
		Name string
	}

	tUser struct {
		ID        uint
		Name      string
		CreatedAt time.Time
		Address   *tAddress
		Tags      []tTag
		Labels    []string
		DeletedAt gorm.DeletedAt

		active bool
		secret string
	}

	// tUserProxy stands in for a lazily loaded tUser.
	tUserProxy struct {
		*tUser
	}

	tUnmapped struct {
		Name string
	}

	tNamed struct {
		Title string
	}

	tNode struct {
		Name   string
		Parent *tNode
	}

	tFailing struct{}

	tAccount struct {
		id  uint
		url string
	}

	tHolder struct {
		Address **tAddress
	}
)

func (u tUser) IsActive() bool {
	return u.active
}

func (u *tUser) GetDisplayName() string {
	return strings.ToUpper(u.Name)
}

func (tNamed) EntityName() string {
	return "named"
}

func (tFailing) GetBroken() (string, error) {
	return "", errors.New("boom")
}

func (tFailing) GetWithArgument(int) string {
	return ""
}

func (a tAccount) GetID() uint {
	return a.id
}

func (a *tAccount) GetURL() string {
	return a.url
}

var _createdAt = time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)

func newTestUser() *tUser {
	return &tUser{
		ID:        7,
		Name:      "Ann",
		CreatedAt: _createdAt,
		Address:   &tAddress{City: "Berlin", Street: "Unter den Linden"},
		Tags:      []tTag{{Name: "vip"}, {Name: "beta"}},
		Labels:    []string{"a", "b"},
		active:    true,
		secret:    "hunter2",
	}
}

func newTestMapping() FieldMapping {
	return FieldMapping{
		"tUser": {Fields: map[string][]string{
			GroupDefault: {"id", "name", "created_at"},
			GroupAdmin:   {"id", "name", "created_at", "active"},
		}},
		"tAddress": {Fields: map[string][]string{
			GroupDefault: {"city"},
		}},
		"tTag": {Fields: map[string][]string{
			GroupDefault: {"name"},
		}},
		"tNode": {Fields: map[string][]string{
			GroupDefault: {"name", "parent"},
		}},
		"named": {Fields: map[string][]string{
			GroupDefault: {"title"},
		}},
	}
}
