package corpus

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/SermonFlow/core/canon"
	"github.com/FocuswithJustin/SermonFlow/core/errors"
	"github.com/FocuswithJustin/SermonFlow/core/scripture"
	"github.com/FocuswithJustin/SermonFlow/core/xml"
)

const zefaniaFormat = "Zefania XML"

var (
	zefBooks      = xml.MustCompile("//BIBLEBOOK")
	zefChapters   = xml.MustCompile("CHAPTER")
	zefVerses     = xml.MustCompile("VERS")
	zefIdentifier = xml.MustCompile("/XMLBIBLE/INFORMATION/identifier")
)

// decodeZefania flattens a Zefania bible into verse records. Verses whose
// book, chapter or verse number cannot be determined are counted as skipped.
// Footnotes (NOTE elements) are dropped from verse text.
func decodeZefania(data []byte, source string) ([]scripture.VerseRecord, int, error) {
	if result := xml.Validate(data); !result.Valid {
		return nil, 0, &errors.LoadError{
			Kind:    errors.Malformed,
			Format:  zefaniaFormat,
			Source:  source,
			Message: result.Errors[0].String(),
		}
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, 0, errors.NewMalformed(zefaniaFormat, source, err)
	}

	root := doc.Root()
	if !strings.EqualFold(root.Name(), "XMLBIBLE") {
		return nil, 0, errors.NewUnsupported("corpus format", "XML root <"+root.Name()+"> is not a Zefania XMLBIBLE")
	}

	translation := strings.TrimSpace(doc.SelectFirst(zefIdentifier).Text())
	if translation == "" {
		translation = strings.TrimSpace(root.Attr("biblename"))
	}

	var (
		records []scripture.VerseRecord
		skipped int
	)
	for _, book := range doc.Select(zefBooks) {
		name := bookName(book)
		for _, chapter := range book.Select(zefChapters) {
			ch, chErr := strconv.Atoi(strings.TrimSpace(chapter.Attr("cnumber")))
			for _, vers := range chapter.Select(zefVerses) {
				v, vErr := strconv.Atoi(strings.TrimSpace(vers.Attr("vnumber")))
				if name == "" || chErr != nil || vErr != nil || ch <= 0 || v <= 0 {
					skipped++
					continue
				}
				records = append(records, scripture.VerseRecord{
					Translation: translation,
					Book:        name,
					Chapter:     ch,
					Verse:       v,
					Text:        strings.Join(strings.Fields(vers.TextExcluding("NOTE")), " "),
				})
			}
		}
	}
	return records, skipped, nil
}

// bookName prefers the bname attribute and falls back to the canonical name
// for bnumber.
func bookName(book *xml.Node) string {
	if name := strings.TrimSpace(book.Attr("bname")); name != "" {
		return name
	}
	n, err := strconv.Atoi(strings.TrimSpace(book.Attr("bnumber")))
	if err != nil {
		return ""
	}
	if b, ok := canon.ByOrder(n); ok {
		return b.Name
	}
	return ""
}
