// dset2iso converts DSET JSON records to ISO 19139 XML.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/miku/isokit"
	"github.com/miku/isokit/atomicfile"
	"github.com/miku/isokit/config"
	"github.com/miku/isokit/convert"
	"github.com/miku/isokit/csw"
	"github.com/miku/isokit/dateutil"
	"github.com/miku/isokit/feeds"
	"github.com/miku/isokit/fields"
	"github.com/miku/isokit/pproc/record"
	"github.com/miku/isokit/source"
	"github.com/miku/isokit/templates"
)

var docs = strings.TrimLeft(`
# dset2iso - DSET JSON to ISO 19139

Convert a single record from stdin:

	$ dset2iso < record.json > record.xml

Convert a directory tree of .json and .txt records (optionally compressed),
only files modified since a given day:

	$ dset2iso -i records/ -o iso/ -since 2024-05-01

Push converted records to a catalog, identifiers are appended to the id log:

	$ ISOKIT_CSW_PASSWORD=... dset2iso -i records/ -o iso/ -push

## flags

`, "\n")

var (
	cfg = config.Default().LoadEnv()

	inputDir    = flag.String("i", "", "input directory, batch mode")
	outputDir   = flag.String("o", "", "output directory, batch mode")
	templateDir = flag.String("t", cfg.TemplateDir, "directory with templates overriding the bundled ones")
	since       = flag.String("since", "", "only convert files modified on or after this day")
	numWorkers  = flag.Int("w", cfg.Workers, "number of workers")
	push        = flag.Bool("push", false, "push converted records to the catalog")
	catalogURL  = flag.String("csw", cfg.CatalogURL, "catalog base URL")
	catalogUser = flag.String("csw-user", cfg.CatalogUser, "catalog user, password from ISOKIT_CSW_PASSWORD")
	idLogPath   = flag.String("l", cfg.IDLogPath, "file to append pushed identifiers to")
	verbose     = flag.Bool("verbose", false, "verbose output")
	showVersion = flag.Bool("version", false, "show version")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, docs)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(isokit.Version)
		os.Exit(0)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	conv := convert.New(convert.DSET, templates.Store{Dir: *templateDir})
	if *inputDir == "" {
		rec, err := source.Decode(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		b, err := conv.Convert(rec)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := os.Stdout.Write(b); err != nil {
			log.Fatal(err)
		}
		return
	}
	if *outputDir == "" {
		log.Fatal("batch mode requires an output directory (-o)")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatal(err)
	}
	var cutoff time.Time
	if *since != "" {
		t, err := dateutil.Since(*since)
		if err != nil {
			log.Fatalf("invalid date: %v", err)
		}
		cutoff = t
	}
	files, err := feeds.FindRecordFiles(*inputDir, ".json", ".txt")
	if err != nil {
		log.Fatal(err)
	}
	var publisher *csw.Publisher
	if *push {
		ids, f, err := csw.OpenIDLog(*idLogPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		publisher = &csw.Publisher{
			Client: &csw.Client{
				Client:   feeds.NewClient(cfg.MaxRetries, cfg.Timeout),
				BaseURL:  *catalogURL,
				Username: *catalogUser,
				Password: cfg.CatalogPassword,
			},
			IDs: ids,
		}
	}
	ctx := context.Background()
	convertFile := func(p []byte) ([]byte, error) {
		filename := string(p)
		if !cutoff.IsZero() {
			fi, err := os.Stat(filename)
			if err != nil {
				return nil, err
			}
			if fi.ModTime().Before(cutoff) {
				return nil, nil
			}
		}
		raw, err := readFile(filename)
		if err != nil {
			return nil, err
		}
		rec, b, err := conv.ConvertBytes(raw)
		if err != nil {
			return nil, err
		}
		dst := filepath.Join(*outputDir, feeds.RecordName(filename)+".xml")
		if err := atomicfile.WriteFile(dst, b); err != nil {
			return nil, err
		}
		if publisher != nil {
			if err := publisher.Publish(ctx, conv.ID(rec), b); err != nil {
				return nil, err
			}
		}
		return []byte(dst + "\n"), nil
	}
	var numFailed atomic.Int64
	proc := record.NewProcessor(convertFile,
		record.WithWorkers(*numWorkers),
		record.WithErrorHandler(func(p []byte, err error) error {
			if fields.IsTemplateError(err) {
				return err
			}
			numFailed.Add(1)
			log.WithField("file", string(p)).Warn(err)
			var re *fields.RecordError
			if errors.As(err, &re) {
				log.WithField("raw", string(re.Raw)).Debug("skipped record")
			}
			return nil
		}))
	r := strings.NewReader(strings.Join(files, "\n"))
	if err := proc.Process(ctx, r, os.Stdout); err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"files":  len(files),
		"failed": numFailed.Load(),
	}).Info("dset2iso: done")
}

func readFile(filename string) ([]byte, error) {
	f, err := feeds.OpenRecordFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
