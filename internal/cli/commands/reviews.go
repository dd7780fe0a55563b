package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/client"
)

// NewReviewsCmd creates the reviews command group
func NewReviewsCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write service reviews",
	}

	cmd.AddCommand(newReviewsListCmd(rt), newReviewsAddCmd(rt))

	return cmd
}

func newReviewsListCmd(rt *Runtime) *cobra.Command {
	var requestID int64

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List reviews",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			var reviews []client.Review
			if requestID > 0 {
				reviews, err = a.API.ReviewsForRequest(cmd.Context(), requestID)
			} else {
				reviews, err = a.API.ListReviews(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printReviews(cmd.OutOrStdout(), reviews)
		},
	}

	cmd.Flags().Int64Var(&requestID, "request", 0, "Only reviews for this service request")

	return cmd
}

func newReviewsAddCmd(rt *Runtime) *cobra.Command {
	var in client.NewReview

	cmd := &cobra.Command{
		Use:   "add <request-id>",
		Short: "Review a completed service request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if in.Rating < 1 || in.Rating > 5 {
				return fmt.Errorf("--rating must be between 1 and 5")
			}
			in.ServiceRequestID = id

			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := a.API.CreateReview(cmd.Context(), in)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Review posted", msg.Message)
			return nil
		},
	}

	cmd.Flags().IntVar(&in.Rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&in.Comment, "comment", "", "Review text")

	return withRoute(cmd, "/customer/requests")
}

func printReviews(out io.Writer, reviews []client.Review) error {
	if len(reviews) == 0 {
		fmt.Fprintln(out, "No reviews found.")
		return nil
	}

	w := newTable(out, "ID", "REQUEST", "RATING", "CUSTOMER", "COMMENT")
	for _, r := range reviews {
		fmt.Fprintf(w, "%d\t%d\t%d/5\t%s\t%s\n", r.ID, r.ServiceRequestID, r.Rating, orDash(r.CustomerName), r.Comment)
	}
	return w.Flush()
}
