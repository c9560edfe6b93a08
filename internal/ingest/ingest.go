package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runnerr0/fedai/internal/storage"
)

// Sources names the files to import. Empty paths are skipped.
type Sources struct {
	StaffLLM    string
	Specialized string
	Products    string
	AIServices  string
}

// Empty reports whether no source is set.
func (s Sources) Empty() bool {
	return s.StaffLLM == "" && s.Specialized == "" && s.Products == "" && s.AIServices == ""
}

// Summary counts the rows written per source.
type Summary struct {
	StaffLLM    int `json:"staff_llm"`
	Specialized int `json:"specialized"`
	Products    int `json:"products"`
	AIServices  int `json:"ai_services"`
}

// Import parses every set source and writes it through loader. Agency
// sheets replace their category; products are upserted; AI services are
// replaced wholesale. The first failure stops the import.
func Import(ctx context.Context, loader storage.Loader, src Sources, log *slog.Logger) (Summary, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var sum Summary

	if src.StaffLLM != "" {
		n, err := importFile(src.StaffLLM, func(r io.Reader) (int, error) {
			rows, err := ParseStaffLLM(r)
			if err != nil {
				return 0, err
			}
			return loader.ReplaceAgencies(ctx, storage.CategoryStaffLLM, rows)
		})
		if err != nil {
			return sum, err
		}
		sum.StaffLLM = n
		log.Info("imported agencies", "category", storage.CategoryStaffLLM, "rows", n, "file", src.StaffLLM)
	}

	if src.Specialized != "" {
		n, err := importFile(src.Specialized, func(r io.Reader) (int, error) {
			rows, err := ParseSpecialized(r)
			if err != nil {
				return 0, err
			}
			return loader.ReplaceAgencies(ctx, storage.CategorySpecialized, rows)
		})
		if err != nil {
			return sum, err
		}
		sum.Specialized = n
		log.Info("imported agencies", "category", storage.CategorySpecialized, "rows", n, "file", src.Specialized)
	}

	if src.Products != "" {
		n, err := importFile(src.Products, func(r io.Reader) (int, error) {
			products, err := ParseProducts(r)
			if err != nil {
				return 0, err
			}
			return loader.UpsertProducts(ctx, products)
		})
		if err != nil {
			return sum, err
		}
		sum.Products = n
		log.Info("imported products", "rows", n, "file", src.Products)
	}

	if src.AIServices != "" {
		n, err := importFile(src.AIServices, func(r io.Reader) (int, error) {
			services, err := ParseAIServices(r)
			if err != nil {
				return 0, err
			}
			return loader.ReplaceAIServices(ctx, services)
		})
		if err != nil {
			return sum, err
		}
		sum.AIServices = n
		log.Info("imported ai services", "rows", n, "file", src.AIServices)
	}

	return sum, nil
}

func importFile(path string, load func(io.Reader) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n, err := load(f)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	return n, nil
}
