package command

import (
	"context"
	"fmt"

	"ipguard/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type DetectHandler struct {
	logger   *zap.Logger
	detector *service.DetectorService
}

func NewDetectHandler(logger *zap.Logger, detector *service.DetectorService) *DetectHandler {
	return &DetectHandler{logger: logger, detector: detector}
}

// Run 執行一次可疑流量掃描並輸出摘要
func (handler *DetectHandler) Run(cmd *cobra.Command) error {
	summary, err := handler.detector.Run(context.Background())
	if err != nil {
		return fmt.Errorf("detector run: %w", err)
	}
	cmd.Printf("Scanned %d IPs in the last %d minutes\n", summary.ScannedIPs, summary.WindowMinutes)
	cmd.Printf("Flagged: %d by volume, %d by sensitive path\n", summary.VolumeFlags, summary.SensitiveFlags)
	return nil
}
