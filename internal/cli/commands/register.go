package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homeserv-dev/homeserv/internal/cli/auth"
	"github.com/homeserv-dev/homeserv/internal/cli/router"
	"github.com/homeserv-dev/homeserv/internal/cli/session"
)

type registerFlags struct {
	email       string
	password    string
	name        string
	address     string
	pin         string
	serviceType string
	experience  string
}

// NewRegisterCmd creates the customer registration command
func NewRegisterCmd(rt *Runtime) *cobra.Command {
	f := &registerFlags{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, rt, f, session.RoleCustomer)
		},
	}

	addRegisterFlags(cmd, f)
	cmd.Flags().StringVar(&f.address, "address", "", "Service address")

	return withRoute(cmd, router.PathRegister)
}

// NewRegisterProfessionalCmd creates the professional registration command
func NewRegisterProfessionalCmd(rt *Runtime) *cobra.Command {
	f := &registerFlags{}

	cmd := &cobra.Command{
		Use:   "register-professional",
		Short: "Create a service professional account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, rt, f, session.RoleProfessional)
		},
	}

	addRegisterFlags(cmd, f)
	cmd.Flags().StringVar(&f.address, "address", "", "Business address")
	cmd.Flags().StringVar(&f.serviceType, "service-type", "", "Service type offered (e.g. plumbing)")
	cmd.Flags().StringVar(&f.experience, "experience", "", "Years of experience")

	return withRoute(cmd, router.PathRegisterProfessional)
}

func addRegisterFlags(cmd *cobra.Command, f *registerFlags) {
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&f.name, "name", "", "Full name")
	cmd.Flags().StringVar(&f.pin, "pin", "", "PIN code")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
}

func runRegister(cmd *cobra.Command, rt *Runtime, f *registerFlags, role session.Role) error {
	out := cmd.OutOrStdout()

	a, err := rt.App()
	if err != nil {
		return err
	}

	password := f.password
	if password == "" {
		password, err = readPassword(out, "Password: ")
		if err != nil {
			return err
		}
	}

	resp, err := a.State.Register(cmd.Context(), auth.Registration{
		Email:       f.email,
		Password:    password,
		Name:        f.name,
		Role:        role,
		Address:     f.address,
		Pin:         f.pin,
		ServiceType: f.serviceType,
		Experience:  f.experience,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	printMessage(out, "Account created", resp.Message)
	if role == session.RoleProfessional {
		fmt.Fprintln(out, "  Your profile will be reviewed by an administrator before you can accept requests.")
	}
	fmt.Fprintln(out, "\nRun 'homeserv login' to sign in")

	return nil
}
