package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile is the developer profile owned by exactly one Account.
// Experience and Education are ordered newest-first.
type Profile struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	UserID         bson.ObjectID `bson:"user"`
	Department     string        `bson:"department"`
	Location       string        `bson:"location"`
	Status         string        `bson:"status"`
	Bio            string        `bson:"bio,omitempty"`
	GitHubUsername string        `bson:"github_username,omitempty"`
	Experience     []Experience  `bson:"experience"`
	Education      []Education   `bson:"education"`
	Social         Social        `bson:"social"`
	CreatedAt      time.Time     `bson:"created_at"`
}

// Experience is a work history entry embedded in a Profile.
type Experience struct {
	ID          bson.ObjectID `bson:"_id"`
	Title       string        `bson:"title"`
	Company     string        `bson:"company"`
	Location    string        `bson:"location,omitempty"`
	From        time.Time     `bson:"from,omitempty"`
	To          *time.Time    `bson:"to,omitempty"`
	Current     bool          `bson:"current"`
	Description string        `bson:"description,omitempty"`
}

// Education is a schooling entry embedded in a Profile.
type Education struct {
	ID           bson.ObjectID `bson:"_id"`
	Institution  string        `bson:"institution"`
	Degree       string        `bson:"degree"`
	FieldOfStudy string        `bson:"field_of_study,omitempty"`
	From         time.Time     `bson:"from,omitempty"`
	To           *time.Time    `bson:"to,omitempty"`
	Current      bool          `bson:"current"`
	Description  string        `bson:"description,omitempty"`
}

// Social holds normalized links; empty fields are not stored.
type Social struct {
	YouTube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

// ProfileFields are the core fields replaced by an upsert. Sub-collections are
// not part of it.
type ProfileFields struct {
	Department     string
	Location       string
	Status         string
	Bio            string
	GitHubUsername string
	Social         Social
}
