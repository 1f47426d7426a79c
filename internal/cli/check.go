package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wiremeta/internal/config"
	"wiremeta/internal/diagnostic"
	"wiremeta/resolve"
)

// ErrCheckFailed is returned by check when at least one type fails to resolve.
var ErrCheckFailed = errors.New("check failed")

func (a *app) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <pattern>",
		Short: "Verify that every type of the packages resolves",
		Long: `Analyze the packages matching pattern and resolve every type, reporting
each failure with the reason every candidate constructor was rejected.
The command fails when any type does not resolve.

With a structured format the report is the list of diagnostics.`,
		Example: `  wiremeta check ./...
  wiremeta check --overlay wire.overlay.yaml ./catalog
  wiremeta check -f json ./catalog`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			text := a.cfg.Format == config.FormatText
			ids := s.graph.IDs()

			var report diagnostic.Diagnostics
			failed := 0
			for _, id := range ids {
				_, err := s.registry.Get(id)
				if err == nil {
					continue
				}

				failed++
				a.logger.Debug("type failed", zap.Stringer("type", id), zap.Error(err))

				if text {
					writeFailure(out, err)
					continue
				}

				var rerr *resolve.Error
				if !errors.As(err, &rerr) {
					report.AddError("resolve_failed", err.Error(), id.String(), "")
					continue
				}
				report.AddError(rerr.Kind.String(), rerr.Error(), id.String(), rerr.Constructor)
				report.Merge(rerr.Diagnostics)
			}

			if !text {
				if err := encode(out, a.cfg.Format, newDiagnosticViews(&report)); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d types", ErrCheckFailed, failed, len(ids))
			}

			if text {
				writeSuccess(out, fmt.Sprintf("%d types resolved", len(ids)))
			}

			return nil
		},
	}
}
