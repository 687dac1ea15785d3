package models

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxNameLength bounds snippet names, counted in runes.
const MaxNameLength = 128

var errMultiline = errors.New("must be a single line")

// Validate checks the fields a user supplies on save or edit.
func (f Fields) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name,
			validation.Required,
			validation.RuneLength(1, MaxNameLength),
			validation.By(singleLine),
		),
		validation.Field(&f.Tags, validation.Each(validation.Required, validation.By(singleLine))),
	)
}

func singleLine(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "\r\n") {
		return errMultiline
	}
	return nil
}
