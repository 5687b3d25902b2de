package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/service"
	"ipguard/utils/iputil"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type BlockIPHandler struct {
	logger    *zap.Logger
	blocklist *service.BlocklistService
}

func NewBlockIPHandler(logger *zap.Logger, blocklist *service.BlocklistService) *BlockIPHandler {
	return &BlockIPHandler{logger: logger, blocklist: blocklist}
}

// Block 將 IP 加入封鎖名單；已在名單時提示並更新 reason
func (handler *BlockIPHandler) Block(cmd *cobra.Command, ip, reason string) error {
	if !iputil.IsValid(ip) {
		return fmt.Errorf("invalid IP address: %s", ip)
	}

	entry, created, err := handler.blocklist.Block(context.Background(), ip, reason)
	if err != nil {
		return fmt.Errorf("block %s: %w", ip, err)
	}
	if created {
		cmd.Printf("Blocked IP: %s\n", entry.IPAddress)
	} else {
		cmd.Printf("IP already blocked: %s\n", entry.IPAddress)
	}
	if entry.Reason != "" {
		cmd.Printf("Reason: %s\n", entry.Reason)
	}
	return nil
}

// Unblock 將 IP 移出封鎖名單；不在名單時提示
func (handler *BlockIPHandler) Unblock(cmd *cobra.Command, ip string) error {
	if !iputil.IsValid(ip) {
		return fmt.Errorf("invalid IP address: %s", ip)
	}

	if err := handler.blocklist.Unblock(context.Background(), ip); err != nil {
		var appErr *cErr.Error
		if errors.As(err, &appErr) && appErr.HttpCode() == http.StatusNotFound {
			cmd.Printf("IP not in blocklist: %s\n", ip)
			return nil
		}
		return fmt.Errorf("unblock %s: %w", ip, err)
	}
	cmd.Printf("Unblocked IP: %s\n", ip)
	return nil
}
