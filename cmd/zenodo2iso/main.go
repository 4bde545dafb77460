// zenodo2iso converts Zenodo records to ISO 19139 XML.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"

	"github.com/miku/isokit"
	"github.com/miku/isokit/config"
	"github.com/miku/isokit/convert"
	"github.com/miku/isokit/csw"
	"github.com/miku/isokit/feeds"
	"github.com/miku/isokit/schema/zenodo"
	"github.com/miku/isokit/templates"
)

var docs = strings.TrimLeft(`
# zenodo2iso - Zenodo to ISO 19139

Fetch a published record from Zenodo and convert it:

	$ zenodo2iso -id 1234567 > zenodo-1234567.xml

Convert a record saved as JSON:

	$ zenodo2iso < record.json

## flags

`, "\n")

var (
	cfg = config.Default().LoadEnv()

	recordID    = flag.String("id", "", "Zenodo record identifier")
	apiURL      = flag.String("api", cfg.ZenodoURL, "Zenodo base URL")
	templateDir = flag.String("t", cfg.TemplateDir, "directory with templates overriding the bundled ones")
	push        = flag.Bool("push", false, "push the converted record to the catalog")
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
		client = feeds.NewClient(cfg.MaxRetries, cfg.Timeout)
		r      *zenodo.Record
		err    error
	)
	if *recordID != "" {
		fetcher := &feeds.ZenodoFetcher{Client: client, BaseURL: *apiURL}
		if r, err = fetcher.Fetch(ctx, *recordID); err != nil {
			log.Fatal(err)
		}
	} else {
		r = new(zenodo.Record)
		if err := json.NewDecoder(os.Stdin).Decode(r); err != nil {
			log.Fatal(err)
		}
	}
	rec, err := convert.ZenodoToRecord(r, convert.ZenodoToISORoles)
	if err != nil {
		log.Fatal(err)
	}
	conv := convert.New(convert.Zenodo, templates.Store{Dir: *templateDir})
	b, err := conv.Convert(rec)
	if err != nil {
		log.Fatal(err)
	}
	if *push {
		ids, f, err := csw.OpenIDLog(*idLogPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		publisher := &csw.Publisher{
			Client: &csw.Client{
				Client:   client,
				BaseURL:  *catalogURL,
				Username: *catalogUser,
				Password: cfg.CatalogPassword,
			},
			IDs: ids,
		}
		if err := publisher.Publish(ctx, conv.ID(rec), b); err != nil {
			log.Fatal(err)
		}
	}
	if _, err := os.Stdout.Write(b); err != nil {
		log.Fatal(err)
	}
}
