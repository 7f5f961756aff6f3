package bmfont

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/fontatlas/core"
)

// Format is the serialization format of a descriptor.
type Format int

// Descriptor formats.
const (
	XML Format = iota
	Text
)

// ParseFormat returns the format for a name ("xml" or "text").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "xml", "":
		return XML, nil
	case "text", "txt":
		return Text, nil
	}
	return XML, core.Error(core.EINVALID, "unknown metrics format %q", name)
}

func (f Format) String() string {
	if f == Text {
		return "text"
	}
	return "xml"
}

// FileName returns the name of the metrics file for a pixel size:
// {base}.fnt if the atlas has a single size, {base}.{size}.fnt otherwise.
func FileName(base string, size int, multipleSizes bool) string {
	if multipleSizes {
		return fmt.Sprintf("%s.%d.fnt", base, size)
	}
	return base + ".fnt"
}

// WriteXML writes d as an XML document, indented if pretty is set.
func WriteXML(w io.Writer, d *Descriptor, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = xml.MarshalIndent(d, "", "  ")
	} else {
		out, err = xml.Marshal(d)
	}
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot marshal font descriptor")
	}
	if _, err = io.WriteString(w, xml.Header); err == nil {
		if _, err = w.Write(out); err == nil {
			_, err = io.WriteString(w, "\n")
		}
	}
	return err
}

// WriteText writes d in the BMFont text format.
func WriteText(w io.Writer, d *Descriptor) error {
	bw := bufio.NewWriter(w)
	i := d.Info
	fmt.Fprintf(bw, "info face=%q size=%d bold=%d italic=%d charset=%q unicode=%d stretchH=%d smooth=%d aa=%d padding=%s spacing=%s outline=%d\n",
		i.Face, i.Size, i.Bold, i.Italic, i.Charset, i.Unicode, i.StretchH, i.Smooth, i.AA, i.Padding, i.Spacing, i.Outline)
	c := d.Common
	fmt.Fprintf(bw, "common lineHeight=%d base=%d scaleW=%d scaleH=%d pages=%d packed=%d\n",
		c.LineHeight, c.Base, c.ScaleW, c.ScaleH, c.Pages, c.Packed)
	for _, p := range d.Pages {
		fmt.Fprintf(bw, "page id=%d file=%q\n", p.ID, p.File)
	}
	fmt.Fprintf(bw, "chars count=%d\n", d.Chars.Count)
	for _, ch := range d.Chars.List {
		fmt.Fprintf(bw, "char id=%d x=%d y=%d width=%d height=%d xoffset=%d yoffset=%d xadvance=%d page=%d chnl=%d\n",
			ch.ID, ch.X, ch.Y, ch.Width, ch.Height, ch.XOffset, ch.YOffset, ch.XAdvance, ch.Page, ch.Chnl)
	}
	if d.Kernings != nil {
		fmt.Fprintf(bw, "kernings count=%d\n", d.Kernings.Count)
		for _, k := range d.Kernings.List {
			fmt.Fprintf(bw, "kerning first=%d second=%d amount=%d\n", k.First, k.Second, k.Amount)
		}
	}
	return bw.Flush()
}

// Encode serializes d in a given format.
func Encode(w io.Writer, d *Descriptor, format Format, pretty bool) error {
	if format == Text {
		return WriteText(w, d)
	}
	return WriteXML(w, d, pretty)
}

// WriteFile writes d to path. The document is written to a temporary file
// in the same directory first and then renamed, so path never holds a
// partial document.
func WriteFile(path string, d *Descriptor, format Format, pretty bool) error {
	var buf bytes.Buffer
	if err := Encode(&buf, d, format, pretty); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return core.WrapError(err, core.EIO, "cannot create metrics file for %s", path)
	}
	_, err = tmp.Write(buf.Bytes())
	if e := tmp.Close(); err == nil {
		err = e
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return core.WrapError(err, core.EIO, "cannot write metrics file %s", path)
	}
	tracer().Infof("wrote metrics file %s", path)
	return nil
}

// Decode reads an XML descriptor.
func Decode(r io.Reader) (*Descriptor, error) {
	d := &Descriptor{}
	if err := xml.NewDecoder(r).Decode(d); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot decode font descriptor")
	}
	return d, nil
}

// DecodeText reads a descriptor in BMFont text format.
func DecodeText(r io.Reader) (*Descriptor, error) {
	d := &Descriptor{}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		tag, attrs, err := splitLine(scanner.Text())
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "line %d of font descriptor", lineno)
		}
		n := func(key string) int {
			v, e := strconv.Atoi(attrs[key])
			if e != nil && err == nil && attrs[key] != "" {
				err = e
			}
			return v
		}
		switch tag {
		case "":
			continue
		case "info":
			d.Info = Info{Face: attrs["face"], Size: n("size"), Bold: n("bold"), Italic: n("italic"),
				Charset: attrs["charset"], Unicode: n("unicode"), StretchH: n("stretchH"),
				Smooth: n("smooth"), AA: n("aa"), Padding: attrs["padding"],
				Spacing: attrs["spacing"], Outline: n("outline")}
		case "common":
			d.Common = Common{LineHeight: n("lineHeight"), Base: n("base"), ScaleW: n("scaleW"),
				ScaleH: n("scaleH"), Pages: n("pages"), Packed: n("packed")}
		case "page":
			d.Pages = append(d.Pages, Page{ID: n("id"), File: attrs["file"]})
		case "chars":
			d.Chars.Count = n("count")
		case "char":
			d.Chars.List = append(d.Chars.List, Char{ID: n("id"), X: n("x"), Y: n("y"),
				Width: n("width"), Height: n("height"), XOffset: n("xoffset"), YOffset: n("yoffset"),
				XAdvance: n("xadvance"), Page: n("page"), Chnl: n("chnl")})
		case "kernings":
			d.Kernings = &Kernings{Count: n("count")}
		case "kerning":
			if d.Kernings == nil {
				d.Kernings = &Kernings{}
			}
			d.Kernings.List = append(d.Kernings.List, Kerning{First: n("first"),
				Second: n("second"), Amount: n("amount")})
		}
		if err != nil {
			return nil, core.WrapError(err, core.EINVALID, "line %d of font descriptor", lineno)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot read font descriptor")
	}
	return d, nil
}

// splitLine splits a line of the text format into its tag and key=value
// attributes. Values may be quoted.
func splitLine(line string) (string, map[string]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil, nil
	}
	tag := line
	rest := ""
	if sp := strings.IndexByte(line, ' '); sp >= 0 {
		tag, rest = line[:sp], line[sp+1:]
	}
	attrs := make(map[string]string)
	for rest = strings.TrimSpace(rest); rest != ""; rest = strings.TrimSpace(rest) {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			return "", nil, fmt.Errorf("malformed attribute in %q", line)
		}
		key := rest[:eq]
		rest = rest[eq+1:]
		if strings.HasPrefix(rest, `"`) {
			v, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return "", nil, err
			}
			if attrs[key], err = strconv.Unquote(v); err != nil {
				return "", nil, err
			}
			rest = rest[len(v):]
			continue
		}
		end := strings.IndexByte(rest, ' ')
		if end < 0 {
			end = len(rest)
		}
		attrs[key] = rest[:end]
		rest = rest[end:]
	}
	return tag, attrs, nil
}
