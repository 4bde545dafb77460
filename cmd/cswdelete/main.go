// cswdelete removes previously pushed records from a catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/miku/isokit"
	"github.com/miku/isokit/config"
	"github.com/miku/isokit/csw"
	"github.com/miku/isokit/feeds"
)

var docs = strings.TrimLeft(`
# cswdelete - delete records from a CSW catalog

Deletes every identifier listed in the id log, one per line, as written by
the -push option of the converters:

	$ ISOKIT_CSW_PASSWORD=... cswdelete -l ids.txt

## flags

`, "\n")

var (
	cfg = config.Default().LoadEnv()

	idLogPath   = flag.String("l", cfg.IDLogPath, "file with identifiers to delete")
	catalogURL  = flag.String("csw", cfg.CatalogURL, "catalog base URL")
	catalogUser = flag.String("csw-user", cfg.CatalogUser, "catalog user, password from ISOKIT_CSW_PASSWORD")
	keepGoing   = flag.Bool("k", false, "continue after failed deletes")
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
	f, err := os.Open(*idLogPath)
	if err != nil {
		log.Fatal(err)
	}
	ids, err := csw.ReadIDs(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}
	client := &csw.Client{
		Client:   feeds.NewClient(cfg.MaxRetries, cfg.Timeout),
		BaseURL:  *catalogURL,
		Username: *catalogUser,
		Password: cfg.CatalogPassword,
	}
	log.Infof("deleting %d records", len(ids))
	var deleted, failed int
	for _, id := range ids {
		summary, err := client.Delete(context.Background(), id)
		if err != nil {
			if !*keepGoing {
				log.Fatalf("%s: %v", id, err)
			}
			log.WithField("record", id).Warn(err)
			failed++
			continue
		}
		deleted += summary.Deleted
	}
	log.WithFields(log.Fields{
		"deleted": deleted,
		"failed":  failed,
	}).Info("cswdelete: done")
}
