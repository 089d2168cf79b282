package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/pkg/jwt"
)

// newTokenCmd emite un token para pruebas locales; la gestión de usuarios vive fuera de este servicio.
func newTokenCmd(a *app) *cobra.Command {
	var userID, role string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un Bearer token firmado con JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch role {
			case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
			default:
				return fmt.Errorf("rol %q inválido (admin | bodeguero | vendedor)", role)
			}
			if userID == "" {
				userID = uuid.NewString()
			} else if _, err := uuid.Parse(userID); err != nil {
				return fmt.Errorf("--user %q no es un UUID: %w", userID, err)
			}
			if minutes <= 0 {
				minutes = a.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(a.cfg.JWT.Secret, userID, role, a.cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ID del operador (vacío = UUID nuevo)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAdmin, "admin | bodeguero | vendedor")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	return cmd
}
