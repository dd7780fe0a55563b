package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/app"
	"github.com/homeserv-dev/homeserv/internal/cli/client"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

// NewRequestsCmd creates the requests command group
func NewRequestsCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"service-requests"},
		Short:   "Book and manage service requests",
	}

	cmd.AddCommand(
		newRequestsListCmd(rt),
		newRequestsShowCmd(rt),
		newRequestsCreateCmd(rt),
		newRequestsUpdateCmd(rt),
		newRequestsCancelCmd(rt),
		newRequestsStatusCmd(rt, "accept", "Accept a request assigned to you", client.StatusAccepted),
		newRequestsStatusCmd(rt, "reject", "Reject a request assigned to you", client.StatusRejected),
		newRequestsStatusCmd(rt, "complete", "Mark a request as completed", client.StatusCompleted),
		newRequestsRateCmd(rt),
		newRequestsStatsCmd(rt),
		newRequestsScheduleCmd(rt),
	)

	return cmd
}

func requestFilterFlags(cmd *cobra.Command, f *client.RequestFilter) {
	cmd.Flags().StringVar(&f.Status, "status", "", "Filter by status (requested, accepted, rejected, completed, closed)")
	cmd.Flags().StringVar(&f.From, "from", "", "Only requests on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.To, "to", "", "Only requests on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Search, "search", "", "Free-text search")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "Maximum number of requests")
}

func newRequestsListCmd(rt *Runtime) *cobra.Command {
	var filter client.RequestFilter

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List service requests visible to you",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			requests, err := listRequestsForRole(cmd.Context(), a, filter)
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), requests)
		},
	}

	requestFilterFlags(cmd, &filter)

	return withRoute(cmd, "/customer/requests", "/professional/service-requests", "/admin/service-requests")
}

func listRequestsForRole(ctx context.Context, a *app.App, filter client.RequestFilter) ([]client.ServiceRequest, error) {
	user := a.State.User()
	if user == nil {
		return nil, errNoSession
	}

	switch user.Role {
	case session.RoleAdmin:
		return a.API.AllServiceRequests(ctx, filter)
	case session.RoleProfessional:
		return a.API.ProfessionalRequests(ctx, filter)
	default:
		return a.API.CustomerServiceRequests(ctx, filter)
	}
}

func newRequestsShowCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one service request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			sr, err := a.API.GetServiceRequest(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Request #%d: %s\n", sr.ID, sr.ServiceName)
			fmt.Fprintf(out, "  Status:       %s\n", sr.Status)
			fmt.Fprintf(out, "  Requested:    %s\n", orDash(sr.RequestDate))
			fmt.Fprintf(out, "  Completed:    %s\n", orDash(sr.CompletionDate))
			fmt.Fprintf(out, "  Customer:     %s\n", orDash(sr.CustomerName))
			fmt.Fprintf(out, "  Professional: %s\n", orDash(sr.ProfessionalName))
			if sr.CustomerAddress != "" {
				fmt.Fprintf(out, "  Address:      %s %v\n", sr.CustomerAddress, formatValue(sr.CustomerPin))
			}
			if sr.Remarks != "" {
				fmt.Fprintf(out, "  Remarks:      %s\n", sr.Remarks)
			}
			return nil
		},
	}
}

func newRequestsCreateCmd(rt *Runtime) *cobra.Command {
	var in client.NewServiceRequest

	cmd := &cobra.Command{
		Use:   "create <service-id>",
		Short: "Book a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in.ServiceID = id

			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := a.API.CreateServiceRequest(cmd.Context(), in)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Service requested", msg.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Remarks, "remarks", "", "Notes for the professional")

	return withRoute(cmd, "/customer/request-service")
}

func newRequestsUpdateCmd(rt *Runtime) *cobra.Command {
	var in client.ServiceRequestUpdate

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit the remarks or status of a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if in == (client.ServiceRequestUpdate{}) {
				return fmt.Errorf("nothing to update: set --remarks, --status or --action")
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := a.API.UpdateServiceRequest(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Request updated", msg.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Remarks, "remarks", "", "New remarks")
	cmd.Flags().StringVar(&in.Status, "status", "", "New status")
	cmd.Flags().StringVar(&in.Action, "action", "", "Action such as close")

	return withRoute(cmd, "/customer/requests")
}

func newRequestsCancelCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a request that has not been accepted yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			if err := a.API.DeleteServiceRequest(cmd.Context(), id); err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf("Request %d cancelled", id), "")
			return nil
		},
	}

	return withRoute(cmd, "/customer/requests")
}

func newRequestsStatusCmd(rt *Runtime, use, short, status string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			var msg *client.Message
			switch status {
			case client.StatusAccepted:
				msg, err = a.API.AcceptServiceRequest(cmd.Context(), id)
			case client.StatusRejected:
				msg, err = a.API.RejectServiceRequest(cmd.Context(), id)
			default:
				msg, err = a.API.CompleteServiceRequest(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), fmt.Sprintf("Request %d %s", id, status), msg.Message)
			return nil
		},
	}

	return withRoute(cmd, "/professional/service-requests")
}

func newRequestsRateCmd(rt *Runtime) *cobra.Command {
	var rating int
	var review string

	cmd := &cobra.Command{
		Use:   "rate <id>",
		Short: "Rate a completed request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if rating < 1 || rating > 5 {
				return fmt.Errorf("--rating must be between 1 and 5")
			}
			a, err := rt.App()
			if err != nil {
				return err
			}

			msg, err := a.API.RateServiceRequest(cmd.Context(), id, rating, review)
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), "Thanks for your rating", msg.Message)
			return nil
		},
	}

	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&review, "review", "", "Optional review text")

	return withRoute(cmd, "/customer/requests")
}

func newRequestsStatsCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show request counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			stats, err := a.API.ServiceRequestStats(cmd.Context())
			if err != nil {
				return err
			}
			printDocument(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func newRequestsScheduleCmd(rt *Runtime) *cobra.Command {
	var filter client.RequestFilter

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show your upcoming accepted requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.App()
			if err != nil {
				return err
			}

			requests, err := a.API.ProfessionalSchedule(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), requests)
		},
	}

	cmd.Flags().StringVar(&filter.From, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.To, "to", "", "End date (YYYY-MM-DD)")

	return withRoute(cmd, "/professional/service-requests")
}

func printRequests(out io.Writer, requests []client.ServiceRequest) error {
	if len(requests) == 0 {
		fmt.Fprintln(out, "No service requests found.")
		return nil
	}

	w := newTable(out, "ID", "SERVICE", "STATUS", "CUSTOMER", "PROFESSIONAL", "REQUESTED")
	for _, sr := range requests {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			sr.ID,
			orDash(sr.ServiceName),
			sr.Status,
			orDash(sr.CustomerName),
			orDash(sr.ProfessionalName),
			orDash(sr.RequestDate),
		)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
