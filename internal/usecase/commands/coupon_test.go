//go:build unit

package commands_test

import (
	"context"
	"testing"

	"fleetbook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCouponCommands(t *testing.T) {
	input := commands.CreateCouponInput{
		Code:          "DISCOUNT10",
		Description:   "10% off",
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(10),
		MinOrderValue: decimal.NewFromInt(1000000),
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidTo:       testNow.AddDate(0, 1, 0),
	}

	t.Run("create returns the new coupon id", func(t *testing.T) {
		uow := newFakeUoW()
		cmds := commands.NewCouponCommands(uow)

		id, err := cmds.Create(context.Background(), input)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)
	})

	t.Run("create rejects an unknown discount type", func(t *testing.T) {
		uow := newFakeUoW()
		cmds := commands.NewCouponCommands(uow)

		bad := input
		bad.DiscountType = "bogo"

		_, err := cmds.Create(context.Background(), bad)
		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("create rejects an inverted validity range", func(t *testing.T) {
		uow := newFakeUoW()
		cmds := commands.NewCouponCommands(uow)

		bad := input
		bad.ValidFrom, bad.ValidTo = bad.ValidTo, bad.ValidFrom

		_, err := cmds.Create(context.Background(), bad)
		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}
