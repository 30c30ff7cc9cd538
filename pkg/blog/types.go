package blog

import (
	"time"

	"github.com/google/uuid"
)

// Category is the domain type for post categories. The set is closed; unknown
// categories are rejected at post creation and edit.
type Category string

// Post category constants (typed).
const (
	CategoryNews         Category = "News"
	CategoryNFTs         Category = "NFTs"
	CategoryResearch     Category = "Research"
	CategoryLunchingPool Category = "Lunching pool"
	CategoryAirdrop      Category = "Airdrop"
	CategoryVentures     Category = "Ventures"
	CategoryMarket       Category = "Market updates"
	CategoryTips         Category = "Tips and Tutorials"
	CategoryEarn         Category = "Earn free crypto"
	CategoryWeb3         Category = "Web3"
)

var validCategories = map[Category]struct{}{
	CategoryNews:         {},
	CategoryNFTs:         {},
	CategoryResearch:     {},
	CategoryLunchingPool: {},
	CategoryAirdrop:      {},
	CategoryVentures:     {},
	CategoryMarket:       {},
	CategoryTips:         {},
	CategoryEarn:         {},
	CategoryWeb3:         {},
}

// IsValid reports whether c is one of the known post categories.
func (c Category) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}

// Attachment references a blob-store asset from a record. Either both fields
// are set (asset exists) or both are empty; a partial attachment is never
// persisted.
type Attachment struct {
	AssetID string `json:"asset_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Present reports whether the attachment references a stored asset.
func (a Attachment) Present() bool {
	return a.AssetID != ""
}

// Asset is the blob store's handle for an uploaded payload.
type Asset struct {
	ID  string
	URL string
}

// Account represents a registered user. PasswordHash is never serialized.
type Account struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Avatar       Attachment `json:"avatar"`
	PostCount    int        `json:"post_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Post represents a published post. The thumbnail is required at creation;
// the author is immutable and checked on every mutation.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	Description string     `json:"description"`
	Thumbnail   Attachment `json:"thumbnail"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ContactQuery is a message submitted through the contact form. It has no
// lifecycle coupling to accounts or posts.
type ContactQuery struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Category   string     `json:"category"`
	Query      string     `json:"query"`
	Attachment Attachment `json:"attachment"`
	CreatedAt  time.Time  `json:"created_at"`
}
