package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX concatenates the paragraph text of a Word document in document
// order, one paragraph per line. A DOCX is a zip archive whose body lives in
// word/document.xml; paragraphs are <w:p> elements and their text runs <w:t>.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a valid docx archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()

		return collectParagraphs(rc)
	}

	return "", fmt.Errorf("docx archive has no word/document.xml")
}

// collectParagraphs walks OOXML tokens, emitting one line per paragraph
// element ("p") made of the concatenated text runs ("t") inside it. The same
// shape works for WordprocessingML (w:p / w:t) and DrawingML (a:p / a:t), so
// the PPTX reader reuses it per slide.
func collectParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var lines []string
	var current strings.Builder
	depth := 0 // nesting depth of paragraph elements; OOXML does not nest them, but be safe
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if depth > 0 {
					depth--
					if depth == 0 {
						lines = append(lines, current.String())
					}
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if depth > 0 && inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
