//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ItemKind distinguishes the two content item variants
// ENUM(post,comment)
type ItemKind string
