package domain

// DefaultCategories are installed when no categories are configured.
var DefaultCategories = []string{
	"🐛 Bug",
	"✨ Feature Request",
	"👤 Account",
	"❓ Other",
}
