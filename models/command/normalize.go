package command

import (
	"regexp"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
)

var (
	numberWords = map[string]string{
		"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
		"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	}

	numberWordPattern = regexp.MustCompile(`\b(zero|one|two|three|four|five|six|seven|eight|nine)\b`)
	digitLetterRun    = regexp.MustCompile(`(\d)([a-z])`)
	letterDigitRun    = regexp.MustCompile(`([a-z])(\d)`)
	nonDigit          = regexp.MustCompile(`[^0-9]`)
)

// Normalize lower-cases the utterance, turns spoken digits into
// numerals and splits glued runs such as "carrier5" or "5carrier".
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = numberWordPattern.ReplaceAllStringFunc(text, func(word string) string {
		return numberWords[word]
	})
	text = digitLetterRun.ReplaceAllString(text, "$1 $2")
	text = letterDigitRun.ReplaceAllString(text, "$1 $2")
	return text
}

// ExtractCoordinates reads the target cell from every digit in the
// normalized text. Two digits are row and column. Three digits with a
// zero in the middle are a two digit row followed by the column; that
// row is never on the board, which placement reports as out of bounds.
func ExtractCoordinates(normalized string) (mb.Coordinates, error) {
	digits := nonDigit.ReplaceAllString(normalized, "")

	switch {
	case len(digits) == 2:
		return mb.NewCoordinates(int(digits[0]-'0'), int(digits[1]-'0')), nil

	case len(digits) == 3 && digits[1] == '0':
		row, err := strconv.Atoi(digits[:2])
		if err != nil {
			return mb.Coordinates{}, cerr.ErrBadCoordinates
		}
		return mb.NewCoordinates(row, int(digits[2]-'0')), nil

	default:
		return mb.Coordinates{}, cerr.ErrBadCoordinates
	}
}

// Orientation spoken anywhere in the utterance.
func orientationFromText(normalized string) (mb.Orientation, bool) {
	for _, word := range strings.Fields(normalized) {
		if o, ok := mb.ParseOrientation(word); ok && len(word) > 1 {
			return o, true
		}
	}
	return mb.Horizontal, false
}
