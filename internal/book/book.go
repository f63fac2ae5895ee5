package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no book matches the id for the owner.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidInput is returned when a request cannot be turned into a book.
	ErrInvalidInput = errors.New("invalid book input")
	// ErrAlreadyExists is returned when a manual book reuses an id the owner already holds.
	ErrAlreadyExists = errors.New("book already exists")
)

// InputError carries a user-facing message for an invalid request.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(msg string) error {
	return &InputError{Message: msg}
}

// Status is the reading state of a saved book.
type Status string

const (
	StatusToRead   Status = "To Read"
	StatusReading  Status = "Reading"
	StatusFinished Status = "Finished"
)

// ParseStatus normalizes user input into a Status. "Completed" is an alias of Finished.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to read":
		return StatusToRead, nil
	case "reading":
		return StatusReading, nil
	case "finished", "completed":
		return StatusFinished, nil
	}
	return "", invalid("status must be one of: To Read, Reading, Finished")
}

// Book is a shelf entry owned by a single user.
type Book struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Title         string    `json:"title"`
	Authors       string    `json:"authors"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"publishedDate"`
	Description   string    `json:"description"`
	Thumbnail     string    `json:"thumbnail"`
	InfoLink      string    `json:"infoLink"`
	Status        Status    `json:"status"`
	Raw           string    `json:"raw"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Volume is the subset of a Google Books volume record the shelf keeps.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	PublishedDate string     `json:"publishedDate"`
	Description   string     `json:"description"`
	ImageLinks    ImageLinks `json:"imageLinks"`
	InfoLink      string     `json:"infoLink"`
	PreviewLink   string     `json:"previewLink"`
}

type ImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// ToBook maps a volume to a book for owner, keeping raw as the opaque source snapshot.
func (v Volume) ToBook(owner string, raw []byte) Book {
	info := v.VolumeInfo

	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = "Untitled"
	}
	thumb := info.ImageLinks.Thumbnail
	if thumb == "" {
		thumb = info.ImageLinks.SmallThumbnail
	}
	link := info.InfoLink
	if link == "" {
		link = info.PreviewLink
	}

	return Book{
		ID:            v.ID,
		Owner:         owner,
		Title:         title,
		Authors:       strings.Join(info.Authors, ", "),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		Thumbnail:     thumb,
		InfoLink:      link,
		Status:        StatusToRead,
		Raw:           string(raw),
	}
}

// ManualInput describes a book typed in by the user rather than picked from search.
type ManualInput struct {
	ID            string
	Title         string
	Authors       string
	Publisher     string
	PublishedDate string
	Description   string
	Thumbnail     string
	InfoLink      string
	Status        string
	Raw           string
}

const manualRaw = `{"manual":true}`
