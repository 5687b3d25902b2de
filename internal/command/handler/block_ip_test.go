package command

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

func TestBlock_InvalidIP(t *testing.T) {
	handler := NewBlockIPHandler(zap.NewNop(), nil)
	cmd, buf := newTestCmd()

	err := handler.Block(cmd, "not-an-ip", "")
	assert.ErrorContains(t, err, "invalid IP address")
	assert.Empty(t, buf.String())
}

func TestUnblock_InvalidIP(t *testing.T) {
	handler := NewBlockIPHandler(zap.NewNop(), nil)
	cmd, buf := newTestCmd()

	err := handler.Unblock(cmd, "999.1.2.3")
	assert.ErrorContains(t, err, "invalid IP address")
	assert.Empty(t, buf.String())
}
