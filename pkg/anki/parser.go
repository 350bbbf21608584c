// Package anki parses flashcard deck exports, both Anki's tab-separated
// notes format and plain two-column CSV.
package anki

import (
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Card is one parsed flashcard. FrontRaw keeps the original markup; Front and
// Back are cleaned for search and classification.
type Card struct {
	ExternalId string
	FrontRaw   string
	Front      string
	Back       string
	Tags       []string
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanText strips HTML markup and collapses whitespace. Anki card fields are
// routinely full of formatting tags and entities.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = htmlTagPattern.ReplaceAllString(text, " ")
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
	text = replacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// Parse reads a deck export and returns its cards. Lines starting with '#'
// (Anki metadata headers) are skipped. The separator is sniffed from the
// first data line: a tab means the Anki notes layout, otherwise plain CSV.
// Duplicate card ids keep the last occurrence, in first-seen order.
func Parse(r io.Reader) ([]Card, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck export: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	dataLines := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		dataLines = append(dataLines, line)
	}
	if len(dataLines) == 0 {
		return nil, nil
	}

	tabSeparated := strings.Contains(dataLines[0], "\t")

	reader := csv.NewReader(strings.NewReader(strings.Join(dataLines, "\n")))
	if tabSeparated {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	byId := make(map[string]int)
	cards := make([]Card, 0, len(dataLines))

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse deck export: %w", err)
		}
		if len(row) < 2 {
			continue
		}

		var card Card
		if tabSeparated {
			card = parseAnkiRow(row)
		} else {
			card = parseCSVRow(row)
		}
		if card.Front == "" && card.Back == "" {
			continue
		}

		if idx, exists := byId[card.ExternalId]; exists {
			cards[idx] = card
			continue
		}
		byId[card.ExternalId] = len(cards)
		cards = append(cards, card)
	}

	return cards, nil
}

// parseAnkiRow handles the typical Anki notes export layout:
// 0:GUID, 1:NoteType, 2:Deck, 3:Front, 4:Back, ..., 14:Tags.
func parseAnkiRow(row []string) Card {
	frontRaw := row[0]
	back := row[1]
	if len(row) > 3 {
		frontRaw = row[3]
	}
	if len(row) > 4 {
		back = row[4]
	}
	var tags []string
	if len(row) > 14 {
		tags = strings.Fields(strings.Trim(row[14], `"`))
	}
	return Card{
		ExternalId: row[0],
		FrontRaw:   frontRaw,
		Front:      CleanText(frontRaw),
		Back:       CleanText(back),
		Tags:       tags,
	}
}

// parseCSVRow handles a bare front,back[,tags] layout. There is no stable id
// in this format, so one is derived from the cleaned content.
func parseCSVRow(row []string) Card {
	front := CleanText(row[0])
	back := CleanText(row[1])
	var tags []string
	if len(row) > 2 {
		tags = strings.Fields(row[2])
	}
	sum := md5.Sum([]byte(front + back))
	return Card{
		ExternalId: hex.EncodeToString(sum[:])[:12],
		FrontRaw:   row[0],
		Front:      front,
		Back:       back,
		Tags:       tags,
	}
}
