package item

import "time"

// Comment is feedback left on an item by a user who has actually rented it.
type Comment struct {
	id         int64
	text       string
	itemID     int64
	authorID   int64
	authorName string
	created    time.Time
}

// NewComment creates a comment; eligibility is decided by the item service.
func NewComment(itemID, authorID int64, authorName, text string) *Comment {
	return &Comment{
		text:       text,
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		created:    time.Now().UTC(),
	}
}

// ReconstructComment rebuilds a Comment from persistence data.
func ReconstructComment(id int64, text string, itemID, authorID int64, authorName string, created time.Time) *Comment {
	return &Comment{
		id:         id,
		text:       text,
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		created:    created,
	}
}

func (c *Comment) ID() int64          { return c.id }
func (c *Comment) Text() string       { return c.text }
func (c *Comment) ItemID() int64      { return c.itemID }
func (c *Comment) AuthorID() int64    { return c.authorID }
func (c *Comment) AuthorName() string { return c.authorName }
func (c *Comment) Created() time.Time { return c.created }
