package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Wildfire/internal/repo"
)

// NewJobsCmd создаёт группу команд просмотра журнала запусков CSPP.
// Журнал ведётся runner'ом в Postgres (см. DB_URL).
func NewJobsCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect the CSPP job journal",
	}

	cmd.AddCommand(
		newJobsListCmd(outputFn),
		newJobsShowCmd(outputFn),
	)

	return cmd
}

func newJobsListCmd(outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			pool, err := repo.NewPool(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			records, err := repo.NewJobRepo(pool).ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "SERVICE", "PLATFORM", "ORBIT", "SDR", "ARTIFACTS", "STATUS", "STARTED"}
			rows := make([][]string, len(records))
			for i, rec := range records {
				rows[i] = []string{
					rec.ID.String(),
					rec.Service,
					rec.Platform,
					strconv.FormatInt(rec.OrbitNumber, 10),
					strconv.Itoa(rec.SDRCount),
					strconv.Itoa(rec.ArtifactCount),
					rec.Status,
					rec.StartedAt.Format(time.RFC3339),
				}
			}

			out.Print(headers, rows, records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of results")

	return cmd
}

func newJobsShowCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show JOB_ID",
		Short: "Show a single job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}

			pool, err := repo.NewPool(cmd.Context())
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			rec, err := repo.NewJobRepo(pool).GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			finished := "-"
			if rec.FinishedAt != nil {
				finished = rec.FinishedAt.Format(time.RFC3339)
			}

			out.Print(
				[]string{"ID", "SERVICE", "PLATFORM", "SENSOR", "ORBIT", "SDR", "ARTIFACTS", "STATUS", "STARTED", "FINISHED"},
				[][]string{{
					rec.ID.String(),
					rec.Service,
					rec.Platform,
					rec.Sensor,
					strconv.FormatInt(rec.OrbitNumber, 10),
					strconv.Itoa(rec.SDRCount),
					strconv.Itoa(rec.ArtifactCount),
					rec.Status,
					rec.StartedAt.Format(time.RFC3339),
					finished,
				}},
				rec,
			)
			return nil
		},
	}

	return cmd
}
