//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// Sentiment is the overall tone assigned by the AI service
// ENUM(positive,negative,neutral)
type Sentiment string
