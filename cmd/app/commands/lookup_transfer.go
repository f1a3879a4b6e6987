package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
	lookupUsecase "github.com/allisson/cryptfields/internal/lookup/usecase"
)

// maxRecordLineSize bounds one exported record line.
const maxRecordLineSize = 1024 * 1024

// lookupRecord is the line format of export and import.
type lookupRecord struct {
	Hash      string                 `json:"hash"`
	Secret    string                 `json:"secret"`
	Algorithm cryptoDomain.Algorithm `json:"algorithm"`
	Mode      cryptoDomain.Mode      `json:"mode"`
	Salt      *string                `json:"salt,omitempty"`
}

// RunExportLookup writes every lookup record of (alg, mode) to writer as JSON lines, reading
// the store in pages of batchSize.
func RunExportLookup(
	ctx context.Context,
	store lookupUsecase.SecretStore,
	logger *slog.Logger,
	writer io.Writer,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	batchSize int,
) error {
	if err := cryptoDomain.ValidateAlgorithmMode(alg, mode); err != nil {
		return err
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}

	encoder := json.NewEncoder(writer)
	total := 0
	for offset := 0; ; offset += batchSize {
		crypts, err := store.Export(ctx, alg, mode, offset, batchSize)
		if err != nil {
			return fmt.Errorf("failed to export lookup records: %w", err)
		}
		for _, crypt := range crypts {
			record := lookupRecord{
				Hash:      crypt.Hash,
				Secret:    crypt.Secret,
				Algorithm: crypt.Algorithm,
				Mode:      crypt.Mode,
				Salt:      crypt.Salt,
			}
			if err := encoder.Encode(record); err != nil {
				return fmt.Errorf("failed to write lookup record: %w", err)
			}
		}
		total += len(crypts)
		if len(crypts) < batchSize {
			break
		}
	}

	logger.Info("lookup records exported",
		slog.String("algorithm", string(alg)),
		slog.String("mode", string(mode)),
		slog.Int("count", total),
	)
	return nil
}

// RunImportLookup reads JSON lines produced by RunExportLookup and adds the records the store
// does not already hold. Existing records are never overwritten. Blank lines are skipped.
func RunImportLookup(
	ctx context.Context,
	store lookupUsecase.SecretStore,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
	batchSize int,
) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLineSize)

	var (
		batch    []*lookupDomain.Crypt
		read     int
		imported int
		line     int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		created, err := store.Import(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to import lookup records: %w", err)
		}
		imported += created
		batch = nil
		return nil
	}

	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var record lookupRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("invalid lookup record on line %d: %w", line, err)
		}
		batch = append(batch, &lookupDomain.Crypt{
			Hash:      record.Hash,
			Secret:    record.Secret,
			Algorithm: record.Algorithm,
			Mode:      record.Mode,
			Salt:      record.Salt,
		})
		read++

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read lookup records: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	logger.Info("lookup records imported",
		slog.Int("read", read),
		slog.Int("imported", imported),
	)
	_, _ = fmt.Fprintf(writer, "Imported %d of %d record(s)\n", imported, read)
	return nil
}
