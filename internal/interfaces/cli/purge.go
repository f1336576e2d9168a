package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPurgeCommand(opts *RootOptions) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Borra de la base local las entradas sin uso",
		Long: `Borra sesiones y carritos de la base local que no se modificaron en el
periodo indicado. Afecta a todos los dispositivos de la base.

Ejemplo:
  shopctl purge --older-than 720h`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return NewExitError(ExitCommandError, "--older-than debe ser positivo")
			}
			kv, err := opts.openLocal()
			if err != nil {
				return err
			}
			defer kv.Close()
			n, err := kv.PurgeBefore(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			opts.log.Info().Int64("entries", n).Dur("older_than", olderThan).Msg("base local depurada")
			return opts.out.Success(messageView{Message: fmt.Sprintf("%d entradas eliminadas", n)})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "antigüedad mínima")
	return cmd
}
