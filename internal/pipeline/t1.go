package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/ppiankov/regulqa/internal/extract/adapters"
	"github.com/ppiankov/regulqa/internal/util"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Trick SRS scrape output
const (
	TrickSRSFile     = "trick_srs_requirements.csv"
	TrickSRSDocument = "TRICK_SRS"
)

// T1 dataset names used in outcomes and logs
const (
	DatasetPURE     = "PURE"
	DatasetPromise  = "PROMISE_EXP"
	DatasetTrickSRS = "TRICK_SRS"
)

// Accepted file extensions per record page, in preference order
var (
	PUREExts    = []string{"zip"}
	PromiseExts = []string{"arff", "xlsx", "csv", "zip"}
)

var trickShall = extract.MustCompileWords(`shall`)

// ErrNoRecordFile is returned when a record page links no file with an accepted extension
var ErrNoRecordFile = errors.New("no matching file on record page")

// T1Outcome is the result of one T1 dataset download
type T1Outcome struct {
	Dataset string
	Path    string // extract folder, saved file or scraped CSV
	Files   int
	Rows    int // scraped requirements, Trick SRS only
	Err     error
}

// ResolveRecordFile returns the download URL and file name of the first
// "/files/" link on a record page ending in one of exts. The URL always
// carries download=1.
func (f *Fetcher) ResolveRecordFile(ctx context.Context, pageURL string, exts []string) (string, string, error) {
	page, err := f.download(ctx, pageURL)
	if err != nil {
		return "", "", err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("parse %s: %w", pageURL, err)
	}
	doc, err := html.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return "", "", fmt.Errorf("parse record page: %w", err)
	}

	for _, a := range elements(doc, atom.A) {
		href := strings.TrimSpace(adapters.GetAttribute(a, "href"))
		if href == "" {
			continue
		}
		ref, err := base.Parse(href)
		if err != nil {
			continue
		}
		link := ref.String()
		if !strings.Contains(link, "/files/") || !hasExt(link, exts) {
			continue
		}

		if !strings.Contains(link, "download=1") {
			sep := "?"
			if strings.Contains(link, "?") {
				sep = "&"
			}
			link += sep + "download=1"
		}
		name := recordFileName(link)
		if name == "" {
			continue
		}
		return link, name, nil
	}
	return "", "", fmt.Errorf("%s %v: %w", pageURL, exts, ErrNoRecordFile)
}

func hasExt(link string, exts []string) bool {
	lower := strings.ToLower(link)
	for _, ext := range exts {
		if strings.HasSuffix(lower, "."+ext) || strings.Contains(lower, "."+ext+"?") {
			return true
		}
	}
	return false
}

// recordFileName is the last path element after "/files/", unescaped
func recordFileName(link string) string {
	tail := link[strings.LastIndex(link, "/files/")+len("/files/"):]
	if i := strings.IndexAny(tail, "?#"); i >= 0 {
		tail = tail[:i]
	}
	if unescaped, err := url.PathUnescape(tail); err == nil {
		tail = unescaped
	}
	name := path.Base(tail)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// FetchPURE downloads the PURE archive linked from pageURL and extracts it into outDir
func (f *Fetcher) FetchPURE(ctx context.Context, pageURL, outDir string) *T1Outcome {
	out := &T1Outcome{Dataset: DatasetPURE, Path: outDir}

	link, name, err := f.ResolveRecordFile(ctx, pageURL, PUREExts)
	if err != nil {
		out.Err = err
		return out
	}
	archive, err := f.download(ctx, link)
	if err != nil {
		out.Err = err
		return out
	}

	out.Files, out.Err = unzipArchive(archive.Body, outDir)
	if out.Err == nil {
		f.logger.Info("t1 archive extracted", zap.String("dataset", out.Dataset), zap.String("archive", name), zap.Int("files", out.Files))
	}
	return out
}

// FetchPromise saves the Promise+ file linked from pageURL into outDir
func (f *Fetcher) FetchPromise(ctx context.Context, pageURL, outDir string) *T1Outcome {
	out := &T1Outcome{Dataset: DatasetPromise}

	link, name, err := f.ResolveRecordFile(ctx, pageURL, PromiseExts)
	if err != nil {
		out.Err = err
		return out
	}
	file, err := f.download(ctx, link)
	if err != nil {
		out.Err = err
		return out
	}

	out.Path = filepath.Join(outDir, name)
	if err := util.WriteFileAtomic(out.Path, file.Body, 0o644); err != nil {
		out.Err = fmt.Errorf("save %s: %w", name, err)
		return out
	}
	out.Files = 1
	f.logger.Info("t1 file saved", zap.String("dataset", out.Dataset), zap.String("path", out.Path), zap.Int("bytes", len(file.Body)))
	return out
}

// ScrapeTrickSRS writes every list item of the Trick SRS page that contains
// "shall" to outDir/trick_srs_requirements.csv
func (f *Fetcher) ScrapeTrickSRS(ctx context.Context, pageURL, outDir string) *T1Outcome {
	out := &T1Outcome{Dataset: DatasetTrickSRS, Path: filepath.Join(outDir, TrickSRSFile)}

	page, err := f.download(ctx, pageURL)
	if err != nil {
		out.Err = err
		return out
	}
	lines, err := shallListItems(page.Body)
	if err != nil {
		out.Err = err
		return out
	}

	if err := dataset.WriteCSV(out.Path, harvestHeader, documentRows(TrickSRSDocument, lines)); err != nil {
		out.Err = err
		return out
	}
	out.Files, out.Rows = 1, len(lines)
	f.logger.Info("t1 requirements scraped", zap.String("dataset", out.Dataset), zap.String("path", out.Path), zap.Int("rows", out.Rows))
	return out
}

// shallListItems returns the normalized text of each li element (nested
// items included) that contains the word "shall"
func shallListItems(body []byte) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(strings.ToValidUTF8(string(body), "")))
	if err != nil {
		return nil, fmt.Errorf("parse srs page: %w", err)
	}

	var lines []string
	for _, li := range elements(doc, atom.Li) {
		text := extract.Normalize(adapters.ExtractText(li))
		if trickShall.MatchString(text) {
			lines = append(lines, text)
		}
	}
	return lines, nil
}

// elements returns every element of kind a below n in document order
func elements(n *html.Node, a atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.DataAtom == a {
			found = append(found, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// unzipArchive extracts data into dir and returns the number of files written.
// Entries that would land outside dir are rejected.
func unzipArchive(data []byte, dir string) (int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}

	written := 0
	for _, zf := range zr.File {
		name := filepath.FromSlash(zf.Name)
		if !filepath.IsLocal(name) {
			return written, fmt.Errorf("archive entry %q escapes %s", zf.Name, dir)
		}
		target := filepath.Join(dir, name)

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", target, err)
			}
			continue
		}

		content, err := readZipFile(zf)
		if err != nil {
			return written, err
		}
		if err := util.WriteFileAtomic(target, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", target, err)
		}
		written++
	}
	return written, nil
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", zf.Name, err)
	}
	defer func() { _ = rc.Close() }()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", zf.Name, err)
	}
	return content, nil
}
