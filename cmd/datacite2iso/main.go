// datacite2iso converts DataCite DOI metadata to ISO 19139 XML.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/segmentio/encoding/json"
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
	"github.com/miku/isokit/schema/datacite"
	"github.com/miku/isokit/templates"
)

var docs = strings.TrimLeft(`
# datacite2iso - DataCite to ISO 19139

Convert a single DOI, fetched from the DataCite API:

	$ datacite2iso -doi 10.5065/D68S4N4H > d68s4n4h.xml

Harvest all DOIs of a prefix updated on a given day; prints the file name:

	$ datacite2iso -harvest 2024-05-01 -prefix 10.5065

Convert a harvested dump (newline delimited JSON, optionally compressed) into
a directory, and push the records to a catalog:

	$ datacite2iso -f datacite-2024-05-01.ndjson.zst -o iso/ -push

## flags

`, "\n")

var (
	cfg = config.Default().LoadEnv()

	doi         = flag.String("doi", "", "convert a single DOI")
	dumpFile    = flag.String("f", "", "DataCite documents, one per line")
	harvestDay  = flag.String("harvest", "", "harvest DOIs updated on this day (YYYY-MM-DD)")
	prefix      = flag.String("prefix", "10.5065", "DOI prefix to harvest")
	clientID    = flag.String("client-id", "", "restrict harvest to a DataCite repository, e.g. ncar.rda")
	harvestDir  = flag.String("d", cfg.HarvestDir, "directory for harvested files")
	outputDir   = flag.String("o", "", "output directory for batch conversion")
	templateDir = flag.String("t", cfg.TemplateDir, "directory with templates overriding the bundled ones")
	apiURL      = flag.String("api", cfg.DataCiteURL, "DataCite API base URL")
	numWorkers  = flag.Int("w", cfg.Workers, "number of workers")
	maxRetries  = flag.Int("r", cfg.MaxRetries, "max retries")
	timeout     = flag.Duration("T", cfg.Timeout, "request timeout")
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
	var (
		ctx    = context.Background()
		client = feeds.NewClient(*maxRetries, *timeout)
		conv   = convert.New(convert.DataCite, templates.Store{Dir: *templateDir})
	)
	var publisher *csw.Publisher
	if *push {
		ids, f, err := csw.OpenIDLog(*idLogPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		publisher = &csw.Publisher{
			Client: &csw.Client{
				Client:   client,
				BaseURL:  *catalogURL,
				Username: *catalogUser,
				Password: cfg.CatalogPassword,
			},
			IDs: ids,
		}
	}
	switch {
	case *doi != "":
		normalized := convert.NormalizeDOI(*doi)
		if normalized == "" {
			log.Fatalf("not a DOI: %s", *doi)
		}
		fetcher := &feeds.DataCiteFetcher{Client: client, BaseURL: *apiURL}
		doc, err := fetcher.Fetch(ctx, normalized)
		if err != nil {
			log.Fatal(err)
		}
		id, b, err := convertDocument(conv, doc)
		if err != nil {
			log.Fatal(err)
		}
		if publisher != nil {
			if err := publisher.Publish(ctx, id, b); err != nil {
				log.Fatal(err)
			}
		}
		if _, err := os.Stdout.Write(b); err != nil {
			log.Fatal(err)
		}
	case *harvestDay != "":
		day, err := dateutil.Parse(*harvestDay)
		if err != nil {
			log.Fatalf("invalid date: %v", err)
		}
		if err := os.MkdirAll(*harvestDir, 0755); err != nil {
			log.Fatal(err)
		}
		h := &feeds.DataCiteHarvester{
			Client:     client,
			BaseURL:    *apiURL,
			Prefix:     *prefix,
			ClientID:   *clientID,
			PageSize:   500,
			MaxRetries: *maxRetries,
		}
		started := time.Now()
		dst, err := h.WriteDaySlice(ctx, day, *harvestDir)
		if err != nil {
			log.Fatal(err)
		}
		log.WithField("elapsed", time.Since(started)).Info("datacite: harvest done")
		fmt.Println(dst)
	case *dumpFile != "":
		if *outputDir == "" {
			log.Fatal("batch mode requires an output directory (-o)")
		}
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			log.Fatal(err)
		}
		f, err := feeds.OpenRecordFile(*dumpFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		convertLine := func(p []byte) ([]byte, error) {
			var doc datacite.Document
			if err := json.Unmarshal(p, &doc); err != nil {
				return nil, err
			}
			id, b, err := convertDocument(conv, &doc)
			if err != nil {
				return nil, fields.WithRaw(err, p)
			}
			dst := filepath.Join(*outputDir, convert.Filename(id, ".xml"))
			if err := atomicfile.WriteFile(dst, b); err != nil {
				return nil, err
			}
			if publisher != nil {
				if err := publisher.Publish(ctx, id, b); err != nil {
					return nil, err
				}
			}
			return []byte(id + "\n"), nil
		}
		var numSkipped atomic.Int64
		proc := record.NewProcessor(convertLine,
			record.WithWorkers(*numWorkers),
			record.WithErrorHandler(func(p []byte, err error) error {
				if fields.IsTemplateError(err) {
					return err
				}
				numSkipped.Add(1)
				log.Warn(err)
				log.WithField("raw", string(p)).Debug("skipped document")
				return nil
			}))
		if err := proc.Process(ctx, f, os.Stdout); err != nil {
			log.Fatal(err)
		}
		log.WithField("skipped", numSkipped.Load()).Info("datacite2iso: done")
	default:
		flag.Usage()
		os.Exit(1)
	}
}

// convertDocument returns the identifier and ISO serialization of a document.
func convertDocument(conv *convert.Converter, doc *datacite.Document) (string, []byte, error) {
	rec, err := convert.DataCiteToRecord(doc, convert.DataCiteRoles)
	if err != nil {
		return "", nil, err
	}
	b, err := conv.Convert(rec)
	if err != nil {
		return "", nil, err
	}
	return conv.ID(rec), b, nil
}
