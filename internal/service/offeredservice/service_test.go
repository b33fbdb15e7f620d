package offeredservice

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
)

func TestListFiltersByBusiness(t *testing.T) {
	businesses := memory.NewBusinessRepository()
	svc := NewService(memory.NewOfferedServiceRepository(), businesses, logger.Nop())
	ctx := context.Background()

	require.NoError(t, businesses.Create(ctx, &model.Business{Name: "Salon", Type: model.BusinessTypeHairdresser}))
	require.NoError(t, businesses.Create(ctx, &model.Business{Name: "Gym", Type: model.BusinessTypeGym}))

	price := decimal.RequireFromString("25.00")
	for _, req := range []*model.OfferedServiceRequest{
		{Name: "Haircut", Price: &price, BusinessID: filter.Ptr[int64](1)},
		{Name: "Colour", BusinessID: filter.Ptr[int64](1)},
		{Name: "Personal training", BusinessID: filter.Ptr[int64](2)},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	rows, total, err := svc.List(ctx, filter.Ptr[int64](1), filter.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Haircut", rows[0].Name)
	assert.True(t, price.Equal(*rows[0].Price))

	_, total, err = svc.List(ctx, nil, filter.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, err = svc.Create(ctx, &model.OfferedServiceRequest{Name: "Ghost", BusinessID: filter.Ptr[int64](9)})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
