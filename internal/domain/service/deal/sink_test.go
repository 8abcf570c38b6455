package deal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/deal"
	"kiosk_commerce/internal/domain/value"
)

func TestFanOut_Publish(t *testing.T) {
	testCases := []struct {
		name    string
		failing []bool
		wantErr bool
	}{
		{name: "all ok", failing: []bool{false, false, false}},
		{name: "first fails, rest still called", failing: []bool{true, false, false}, wantErr: true},
		{name: "no sinks", failing: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			calls := make([]int, len(tc.failing))
			fanOut := deal.NewFanOut()

			for i, fail := range tc.failing {
				fanOut.With("sink", deal.SinkFunc(func(_ context.Context, _ entity.Transition) error {
					calls[i]++
					if fail {
						return errors.New("boom")
					}
					return nil
				}))
			}

			rq.Equal(len(tc.failing), fanOut.Len())

			err := fanOut.Publish(context.Background(), entity.Transition{
				DealID: value.DealID("d-1"),
				From:   value.DealStatusInitiated,
				To:     value.DealStatusVendorConfirmed,
			})
			if tc.wantErr {
				rq.Error(err)
			} else {
				rq.NoError(err)
			}

			for _, c := range calls {
				rq.Equal(1, c)
			}
		})
	}
}
