// iso2zenodo extracts Zenodo deposition metadata from ISO 19139 records.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"

	"github.com/miku/isokit"
	"github.com/miku/isokit/convert"
	"github.com/miku/isokit/feeds"
	"github.com/miku/isokit/pproc/record"
	"github.com/miku/isokit/tree"
)

var docs = strings.TrimLeft(`
# iso2zenodo - ISO 19139 to Zenodo deposition metadata

Reads ISO documents, or any XML containing gmd:MD_Metadata elements like a
CSW GetRecords response, and writes one deposition JSON document per line.

	$ iso2zenodo record.xml
	$ iso2zenodo iso/*.xml > depositions.ndjson
	$ curl -s "$CSW?request=GetRecords&..." | iso2zenodo

## flags

`, "\n")

var (
	numWorkers  = flag.Int("w", 4, "number of workers")
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
	sel := tree.NewSelector(tree.ISONamespaces())
	deposition := func(p []byte) ([]byte, error) {
		t, err := tree.Parse(bytes.NewReader(p))
		if err != nil {
			return nil, err
		}
		d, err := convert.ISOToZenodo(t, sel)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	proc := record.NewProcessor(deposition,
		record.WithWorkers(*numWorkers),
		record.WithSplitFunc(record.ElementSplitter("gmd:MD_Metadata")),
		record.WithErrorHandler(func(p []byte, err error) error {
			log.Warn(err)
			return nil
		}))
	var readers []io.Reader
	for _, filename := range flag.Args() {
		f, err := feeds.OpenRecordFile(filename)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		readers = append(readers, f)
	}
	var r io.Reader = os.Stdin
	if len(readers) > 0 {
		r = io.MultiReader(readers...)
	}
	if err := proc.Process(context.Background(), r, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
