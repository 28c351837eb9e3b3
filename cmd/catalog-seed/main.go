// Command catalog-seed bulk-loads products into the catalog API from gzipped
// NDJSON files. Each line is one product object; lines failing the product
// form rules are skipped with a warning. IDs already seen across the input
// files, or already registered in the backend, are not uploaded twice.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/product-desk/internal/domain/product"
	"github.com/xenking/product-desk/internal/form"
	"github.com/xenking/product-desk/internal/restclient"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000
)

func main() {
	var (
		apiURL     string
		workers    int
		skipExists bool
	)

	flag.StringVar(&apiURL, "api-url", "", "catalog API base URL (or API_URL env)")
	flag.IntVar(&workers, "workers", 4, "concurrent upload workers")
	flag.BoolVar(&skipExists, "skip-exists", true, "verify IDs against the backend before uploading")
	flag.Parse()

	if apiURL == "" {
		apiURL = os.Getenv("API_URL")
	}
	if apiURL == "" {
		slog.Error("API base URL is required: set --api-url or API_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("no input files: pass one or more products.ndjson.gz paths")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, apiURL, files, workers, skipExists); err != nil {
		slog.Error("catalog seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog seed completed successfully")
}

func run(ctx context.Context, apiURL string, files []string, workers int, skipExists bool) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("collecting products", slog.Int("files", len(files)))

	products, err := collectProducts(ctx, files)
	if err != nil {
		return errors.Wrap(err, "collect products")
	}
	if len(products) == 0 {
		slog.Info("no valid products to upload")
		return nil
	}

	slog.Info("uploading", slog.Int("count", len(products)), slog.Int("workers", workers))

	client := restclient.NewClient(apiURL)
	return upload(ctx, client, products, workers, skipExists)
}

// collectProducts streams every file, decodes and validates each line, and
// drops duplicate IDs. The bloom filter answers "definitely unseen" cheaply;
// positives are confirmed against an exact set so a false positive can never
// drop a genuinely new product.
func collectProducts(ctx context.Context, files []string) ([]product.Product, error) {
	seenApprox := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	seen := make(map[string]struct{})
	var (
		products []product.Product
		invalid  uint64
		dupes    uint64
		count    uint64
	)

	for _, path := range files {
		err := streamGzLines(ctx, path, func(line []byte) {
			count++
			if count%progressEvery == 0 {
				slog.Info("collect progress", slog.Uint64("lines", count))
			}

			p, err := decodeLine(line)
			if err != nil {
				invalid++
				slog.Warn("skipping invalid line", slog.Uint64("line", count), slog.String("error", err.Error()))
				return
			}

			if seenApprox.TestString(p.ID) {
				if _, ok := seen[p.ID]; ok {
					dupes++
					return
				}
			}
			seenApprox.AddString(p.ID)
			seen[p.ID] = struct{}{}
			products = append(products, p)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "stream %s", path)
		}
	}

	slog.Info("collect complete",
		slog.Int("valid", len(products)),
		slog.Uint64("invalid", invalid),
		slog.Uint64("duplicates", dupes),
	)
	return products, nil
}

// decodeLine parses one NDJSON line and runs it through the product form
// rules. A missing date_revision is derived from date_release.
func decodeLine(line []byte) (product.Product, error) {
	fields := make(map[form.Field]string, len(form.Fields))

	d := jx.DecodeBytes(line)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch field := form.Field(key); field {
		case form.FieldID, form.FieldName, form.FieldDescription,
			form.FieldLogo, form.FieldDateRelease, form.FieldDateRevision:
			v, err := d.Str()
			if err != nil {
				return errors.Wrapf(err, "field %s", field)
			}
			fields[field] = v
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return product.Product{}, errors.Wrap(err, "decode line")
	}

	f := form.New()
	for _, field := range form.Fields {
		if field == form.FieldDateRevision && fields[field] == "" {
			continue // derived from date_release
		}
		f.Set(field, fields[field])
	}

	p, err := f.Product()
	if err != nil {
		for _, field := range form.Fields {
			if ferr := f.Err(field); ferr != nil {
				return product.Product{}, errors.Errorf("field %s: %s", field, ferr.Kind)
			}
		}
		return product.Product{}, err
	}
	return p, nil
}

// upload creates the products concurrently, optionally skipping IDs the
// backend already knows.
func upload(ctx context.Context, client *restclient.Client, products []product.Product, workers int, skipExists bool) error {
	var (
		mu       sync.Mutex
		uploaded int
		skipped  int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, p := range products {
		g.Go(func() error {
			if skipExists {
				exists, err := client.Exists(ctx, p.ID)
				if err != nil {
					return errors.Wrapf(err, "verify %s", p.ID)
				}
				if exists {
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}
			}

			if _, err := client.Create(ctx, p); err != nil {
				return errors.Wrapf(err, "create %s", p.ID)
			}

			mu.Lock()
			uploaded++
			done := uploaded
			mu.Unlock()
			if done%100 == 0 {
				slog.Info("upload progress", slog.Int("uploaded", done), slog.Int("total", len(products)))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("upload complete", slog.Int("uploaded", uploaded), slog.Int("skipped_existing", skipped))
	return nil
}

// streamGzLines opens a gzip-compressed file and calls fn for each non-empty
// line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if line := scanner.Bytes(); len(line) > 0 {
			fn(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}
