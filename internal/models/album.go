package models

import (
	"time"
)

// Album is a titled collection of images owned by one user.
// FolderName is the storage prefix holding the album's files.
type Album struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	UserID      int64     `json:"userId" db:"user_id"`
	FolderName  string    `json:"folderName" db:"folder_name"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Images []Image `json:"images,omitempty" db:"-"`
	User   *User   `json:"user,omitempty" db:"-"`
}

// Image is a stored file belonging to an album.
// ImageURL holds the storage path "<folder>/<file>" or, in responses, a signed url.
type Image struct {
	ID        int64     `json:"id" db:"id"`
	AlbumID   int64     `json:"albumId" db:"album_id"`
	ImageURL  string    `json:"imageUrl" db:"image_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AlbumFilter selects albums for listing.
type AlbumFilter struct {
	// UserID restricts results to one owner unless IncludeOthers is set
	UserID        int64
	IncludeOthers bool
	// Search is a case insensitive substring of title or description
	Search string
	Limit  int
	Offset int
}

// AlbumListResult is the data of GET /albums.
type AlbumListResult struct {
	PaginatedResult []Album `json:"paginatedResult"`
	Metadata        any     `json:"metadata"`
}

// CreateAlbumRequest holds the text fields of POST /albums.
type CreateAlbumRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// UpdateAlbumRequest holds the text fields of PUT /albums/{albumId}.
// Nil fields keep their current value.
type UpdateAlbumRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description    *string `json:"description" validate:"omitempty,max=5000"`
	ImagesToRemove []int64 `json:"imagesToRemove"`
}

// Apply copies the set fields of req onto a.
func (req *UpdateAlbumRequest) Apply(a *Album) {
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
}
