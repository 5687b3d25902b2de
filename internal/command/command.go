package command

import (
	commandHandler "ipguard/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewBlockIPHandler,
	commandHandler.NewDetectHandler,
)

type Command struct {
	blockIPCommandHandler *commandHandler.BlockIPHandler
	detectCommandHandler  *commandHandler.DetectHandler
}

// NewCommand .
func NewCommand(
	blockIPCommandHandler *commandHandler.BlockIPHandler,
	detectCommandHandler *commandHandler.DetectHandler,
) *Command {
	return &Command{
		blockIPCommandHandler: blockIPCommandHandler,
		detectCommandHandler:  detectCommandHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	var reason string
	var unblock bool

	blockCmd := &cobra.Command{
		Use:   "block <ip>",
		Short: "add or remove an IP from the blocklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			if unblock {
				return command.blockIPCommandHandler.Unblock(cmd, args[0])
			}
			return command.blockIPCommandHandler.Block(cmd, args[0], reason)
		},
	}
	blockCmd.Flags().StringVar(&reason, "reason", "", "reason for blocking")
	blockCmd.Flags().BoolVar(&unblock, "unblock", false, "remove the IP from the blocklist instead")

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "run one suspicious traffic scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.detectCommandHandler.Run(cmd)
		},
	}

	rootCmd.AddCommand(blockCmd, detectCmd)
}
