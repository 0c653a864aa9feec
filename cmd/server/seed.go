package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"protokollo/internal/platform/config"
	"protokollo/internal/registration/models"
)

// seedEntries is a deterministic sample set spanning every category, used to
// exercise a fresh installation end to end (numbering included).
var seedEntries = []struct {
	category models.Category
	req      models.CreateRequest
}{
	{models.CommonIncoming, models.CreateRequest{
		Issuer: "ΓΕΣ/ΔΕΝΔΗΣ", ReferenceNumber: "Φ.900/1/100", Subject: "Οδηγίες ασφαλείας",
		Offices: []string{"1ο ΓΡΑΦΕΙΟ"},
	}},
	{models.CommonOutgoing, models.CreateRequest{
		Issuer: "ΤΑΓΜΑ", ReferenceNumber: "Φ.900/2/200", Subject: "Αναφορά συμβάντος",
		Recipient: "ΜΕΡΑΡΧΙΑ",
	}},
	{models.ConfidentialIncoming, models.CreateRequest{
		Issuer: "ΜΕΡΑΡΧΙΑ", ReferenceNumber: "ΑΠ.123", Subject: "Εμπιστευτική διαταγή",
		Offices: []string{"2ο ΓΡΑΦΕΙΟ", "ΔΙΟΙΚΗΤΗΣ"},
	}},
	{models.ConfidentialOutgoing, models.CreateRequest{
		Issuer: "ΤΑΓΜΑ", ReferenceNumber: "ΑΠ.124", Subject: "Εμπιστευτική αναφορά",
		Recipient: "ΣΤΡΑΤΗΓΕΙΟ",
	}},
	{models.SignalsIncoming, models.CreateRequest{
		Issuer: "ΚΕΠΙΚ", ReferenceNumber: "SIC-001", Subject: "Σήμα ετοιμότητας",
		Offices: []string{"3ο ΓΡΑΦΕΙΟ"},
	}},
	{models.SignalsOutgoing, models.CreateRequest{
		Issuer: "ΤΑΓΜΑ", ReferenceNumber: "SIC-002", Subject: "Απάντηση σήματος",
		Recipient: "ΚΕΠΙΚ",
	}},
}

func newSeedCmd(cfg config.Server, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample registration set through the real service path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed(cmd.Context(), cfg, log)
		},
	}
}

func seed(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	// Seeding runs concurrently; it doubles as a smoke test of the
	// allocator under parallel submissions.
	g, gctx := errgroup.WithContext(ctx)
	for _, entry := range seedEntries {
		g.Go(func() error {
			reg, err := a.registration.Create(gctx, entry.category.String(), entry.req, "seed")
			if err != nil {
				return fmt.Errorf("seed %s: %w", entry.category, err)
			}
			log.Info("seeded registration",
				"category", reg.Category.String(),
				"protocol_number", reg.ProtocolNumber,
			)
			return nil
		})
	}
	return g.Wait()
}
