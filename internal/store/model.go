package store

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a document of the users collection. Optional profile fields stay nil until
// the profile is completed.
type User struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	Email             string        `bson:"email"`
	Username          *string       `bson:"username,omitempty"`
	Name              *string       `bson:"name,omitempty"`
	DateOfBirth       *string       `bson:"date_of_birth,omitempty"`
	Gender            *string       `bson:"gender,omitempty"`
	Provider          string        `bson:"provider"`
	CreatedAt         time.Time     `bson:"created_at"`
	IsProfileComplete bool          `bson:"is_profile_complete"`
}

// Field is one profile value of a sparse update. A field that is not Set is left
// untouched. A Set field with a nil Value clears the stored value.
type Field struct {
	Set   bool
	Value *string
}

// Value returns a field that overwrites the stored value with s.
func Value(s string) Field {
	return Field{Set: true, Value: &s}
}

// Null returns a field that clears the stored value.
func Null() Field {
	return Field{Set: true}
}

// Profile is a sparse set of profile fields applied by MergeUpdate. Provider is immutable
// after creation, so it is only compared and written back unchanged; nil means not supplied.
type Profile struct {
	Username    Field
	Name        Field
	DateOfBirth Field
	Gender      Field
	Provider    *string
}

func (p Profile) set() bson.D {
	var d bson.D
	add := func(key string, f Field) {
		if !f.Set {
			return
		}
		if f.Value == nil {
			d = append(d, bson.E{Key: key, Value: nil})
			return
		}
		d = append(d, bson.E{Key: key, Value: *f.Value})
	}

	add("username", p.Username)
	add("name", p.Name)
	add("date_of_birth", p.DateOfBirth)
	add("gender", p.Gender)
	if p.Provider != nil {
		d = append(d, bson.E{Key: "provider", Value: *p.Provider})
	}
	return d
}
