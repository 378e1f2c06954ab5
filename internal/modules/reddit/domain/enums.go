//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// SortOrder is the subreddit listing sort
// ENUM(new,top,hot,rising)
type SortOrder string
