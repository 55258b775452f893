package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxProjectNameLength = 255

	// MinPasswordLength is the minimum length for account passwords.
	MinPasswordLength = 6

	// MaxBusinessDescriptionLength caps the business description accepted by
	// sitemap generation. Anything longer bloats prompts without improving
	// output.
	MaxBusinessDescriptionLength = 4000
)
