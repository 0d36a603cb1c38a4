package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

func TestParseVoteType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.VoteType
		wantErr bool
	}{
		{name: "up", input: "up", want: types.VoteUp},
		{name: "down", input: "down", want: types.VoteDown},
		{name: "uppercase", input: "UP", wantErr: true},
		{name: "padded", input: "up ", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "numeric", input: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseVoteType(tt.input)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"read", "update", "delete"} {
		action, err := types.ParseAction(s)
		gt.NoError(t, err).Required()
		gt.Value(t, action.String()).Equal(s)
	}

	_, err := types.ParseAction("approve")
	gt.Value(t, err).NotNil()

	gt.B(t, types.ActionRead.IsMutation()).False()
	gt.B(t, types.ActionUpdate.IsMutation()).True()
	gt.B(t, types.ActionDelete.IsMutation()).True()
}

func TestRiskStatus(t *testing.T) {
	for _, s := range types.AllRiskStatuses() {
		parsed, err := types.ParseRiskStatus(s.String())
		gt.NoError(t, err).Required()
		gt.Value(t, parsed).Equal(s)
	}

	_, err := types.ParseRiskStatus("open")
	gt.Value(t, err).NotNil()
	gt.Value(t, types.RiskStatus("").Normalize()).Equal(types.RiskStatusOpen)
}
