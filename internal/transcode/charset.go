package transcode

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Charset is a resolved encoding label
type Charset struct {
	// Name is the canonical lower-case label
	Name string
	// Encoding is the codec; nil for the UTF-8 family, which is handled on bytes directly
	Encoding encoding.Encoding
	// UTF8 marks the UTF-8 family
	UTF8 bool
	// BOM marks utf-8-sig: a byte order mark is written on encode
	BOM bool
	// GB2312 restricts encoder output to the EUC-CN byte ranges
	GB2312 bool
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// GB2312 has no codec of its own in x/text. GBK is its superset and decodes
// every GB2312 byte sequence identically; on encode the output is checked
// against the GB2312 ranges.
var knownCharsets = map[string]Charset{
	"utf-8":      {Name: "utf-8", UTF8: true},
	"utf8":       {Name: "utf-8", UTF8: true},
	"utf-8-sig":  {Name: "utf-8-sig", UTF8: true, BOM: true},
	"utf_8_sig":  {Name: "utf-8-sig", UTF8: true, BOM: true},
	"gb2312":     {Name: "gb2312", Encoding: simplifiedchinese.GBK, GB2312: true},
	"gb_2312-80": {Name: "gb2312", Encoding: simplifiedchinese.GBK, GB2312: true},
	"euc-cn":     {Name: "gb2312", Encoding: simplifiedchinese.GBK, GB2312: true},
	"gbk":        {Name: "gbk", Encoding: simplifiedchinese.GBK},
	"cp936":      {Name: "gbk", Encoding: simplifiedchinese.GBK},
	"gb18030":    {Name: "gb18030", Encoding: simplifiedchinese.GB18030},
	"gb-18030":   {Name: "gb18030", Encoding: simplifiedchinese.GB18030},
	"hz-gb-2312": {Name: "hz-gb-2312", Encoding: simplifiedchinese.HZGB2312},
}

// NormalizeLabel lower-cases and trims an encoding label
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Lookup resolves an encoding label. Labels outside the built-in table are
// resolved through the WHATWG label index.
func Lookup(label string) (Charset, error) {
	name := NormalizeLabel(label)
	if name == "" {
		return Charset{}, fmt.Errorf("%w: empty label", ErrUnsupportedEncoding)
	}
	if cs, ok := knownCharsets[name]; ok {
		return cs, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil || enc == encoding.Replacement {
		return Charset{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, label)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = name
	}
	if canonical == "utf-8" {
		return knownCharsets["utf-8"], nil
	}
	return Charset{Name: strings.ToLower(canonical), Encoding: enc}, nil
}
