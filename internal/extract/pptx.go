package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// extractPPTX walks the slides of a PowerPoint deck in slide order, one
// newline-joined entry per slide; a slide without text yields an empty
// line. Slides live at ppt/slides/slideN.xml; N is the presentation order.
func extractPPTX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("not a valid pptx archive: %w", err)
	}

	type slideFile struct {
		index int
		file  *zip.File
	}

	var slides []slideFile
	for _, f := range zr.File {
		m := slidePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideFile{index: n, file: f})
	}

	if len(slides) == 0 {
		return "", fmt.Errorf("pptx archive has no slides")
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var parts []string
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open slide %d: %w", s.index, err)
		}

		// Slide text uses DrawingML: shapes carry <a:p> paragraphs of
		// <a:t> runs, the same paragraph/run shape as the DOCX body.
		text, err := collectParagraphs(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.index, err)
		}

		// A slide with no text still contributes an empty line, so the
		// output keeps one entry per slide.
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}
