package engines

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/types"
)

// hOCR classes that carry one line of text
var hocrLineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_header":    true,
	"ocr_caption":   true,
	"ocr_textfloat": true,
}

const hocrWordClass = "ocrx_word"

// parseHOCR extracts line regions from tesseract hOCR output.
// Line confidence is the mean of its word x_wconf values scaled to [0,1].
func parseHOCR(r io.Reader) ([]types.TextRegion, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "error parsing hOCR")
	}

	var regions []types.TextRegion
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasAnyClass(n, hocrLineClasses) {
			if region, ok := hocrLineRegion(n); ok {
				regions = append(regions, region)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return regions, nil
}

func hocrLineRegion(line *html.Node) (types.TextRegion, bool) {
	var words []string
	var confSum float64
	var confCount int

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, hocrWordClass) {
			word := strings.TrimSpace(nodeText(n))
			if word == "" {
				return
			}
			words = append(words, word)
			if conf, ok := titleFloat(attr(n, "title"), "x_wconf"); ok {
				confSum += conf
				confCount++
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(line)

	if len(words) == 0 {
		return types.TextRegion{}, false
	}

	region := types.TextRegion{Text: strings.Join(words, " ")}
	if confCount > 0 {
		region.Confidence = clampConfidence(confSum / float64(confCount) / constants.TesseractConfPercent)
	}
	if box, ok := titleBBox(attr(line, "title")); ok {
		region.BoundingPolygon = rectPolygon(box[0], box[1], box[2], box[3])
	}
	return region, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func hasAnyClass(n *html.Node, classes map[string]bool) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if classes[c] {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// titleProperty returns the fields of one property of an hOCR title attribute,
// e.g. "bbox 10 20 30 40; x_wconf 91" -> bbox -> [10 20 30 40]
func titleProperty(title, name string) []string {
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(part)
		if len(fields) > 0 && fields[0] == name {
			return fields[1:]
		}
	}
	return nil
}

func titleFloat(title, name string) (float64, bool) {
	fields := titleProperty(title, name)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	return v, err == nil
}

func titleBBox(title string) ([4]float64, bool) {
	var box [4]float64
	fields := titleProperty(title, "bbox")
	if len(fields) != 4 {
		return box, false
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return box, false
		}
		box[i] = v
	}
	return box, true
}
