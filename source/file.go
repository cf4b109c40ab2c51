package source

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/chenjie199234/Dictionary/cerror"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// max length of one line
const maxline = 10 * 1024 * 1024

// FileSource reads a text file line by line
type FileSource struct {
	Path string `json:"path"`
	//empty means utf-8
	//iso-8859-1,latin1 and every name in the whatwg encoding standard are supported
	Charset string `json:"charset"`
}

func (f *FileSource) Name() string {
	return "file:" + f.Path
}

func (f *FileSource) Scan(ctx context.Context, yield func(token string) bool) error {
	decoder, e := getDecoder(f.Charset)
	if e != nil {
		return e
	}
	file, e := os.Open(f.Path)
	if e != nil {
		return cerror.Annotate(cerror.ErrSourceUnavailable, e.Error())
	}
	defer file.Close()
	var r io.Reader = file
	if decoder != nil {
		r = decoder.Reader(file)
	}
	return scanLines(r, f.Name(), yield)
}

func getDecoder(charset string) (*encoding.Decoder, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		//htmlindex maps iso-8859-1 to windows-1252
		return charmap.ISO8859_1.NewDecoder(), nil
	}
	enc, e := htmlindex.Get(charset)
	if e != nil {
		return nil, cerror.Annotate(cerror.ErrConfig, "unknown charset: "+charset)
	}
	return enc.NewDecoder(), nil
}

// ReaderSource reads an already opened stream,e.g. stdin
type ReaderSource struct {
	SourceName string
	R          io.Reader
}

func (r *ReaderSource) Name() string {
	if r.SourceName == "" {
		return "reader"
	}
	return r.SourceName
}

func (r *ReaderSource) Scan(ctx context.Context, yield func(token string) bool) error {
	if r.R == nil {
		return cerror.Annotate(cerror.ErrSourceUnavailable, "nil reader")
	}
	return scanLines(r.R, r.Name(), yield)
}

func scanLines(r io.Reader, name string, yield func(string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxline)
	for scanner.Scan() {
		if !Tokenize(scanner.Text(), yield) {
			return nil
		}
	}
	if e := scanner.Err(); e != nil {
		return cerror.Annotate(cerror.ErrSourceUnavailable, name+": "+e.Error())
	}
	return nil
}
