package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderOps struct {
	approved []int64
	analysed []int64
	page     Page
	err      error
}

func (f *fakeOrderOps) Approve(_ context.Context, orderID int64) error {
	if f.err != nil {
		return f.err
	}
	f.approved = append(f.approved, orderID)
	return nil
}

func (f *fakeOrderOps) Analyse(_ context.Context, orderID int64) error {
	if f.err != nil {
		return f.err
	}
	f.analysed = append(f.analysed, orderID)
	return nil
}

func (f *fakeOrderOps) List(_ context.Context, page, limit int) (Page, error) {
	if f.err != nil {
		return Page{}, f.err
	}
	out := f.page
	out.Page = page
	out.Limit = limit
	return out, nil
}

func TestApproveOrderCommand(t *testing.T) {
	ops := &fakeOrderOps{}
	cmd := NewApproveOrderCommand(ops, nil)

	require.NoError(t, cmd.Execute(context.Background(), ApproveOrderInput{OrderID: 4}))
	assert.Equal(t, []int64{4}, ops.approved)

	ops.err = errors.New("remote refused")
	require.Error(t, cmd.Execute(context.Background(), ApproveOrderInput{OrderID: 4}))
}

func TestApproveOrderCommandMissingService(t *testing.T) {
	cmd := NewApproveOrderCommand(nil, nil)
	require.Error(t, cmd.Execute(context.Background(), ApproveOrderInput{OrderID: 1}))
}

func TestStartAnalysisCommand(t *testing.T) {
	ops := &fakeOrderOps{}
	cmd := NewStartAnalysisCommand(ops, nil)

	require.NoError(t, cmd.Execute(context.Background(), StartAnalysisInput{OrderID: 8}))
	assert.Equal(t, []int64{8}, ops.analysed)
}

func TestPageQuery(t *testing.T) {
	ops := &fakeOrderOps{page: Page{Total: 3}}
	query := NewPageQuery(ops)

	page, err := query.Query(context.Background(), PageInput{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, 3, page.Total)

	empty := NewPageQuery(nil)
	_, err = empty.Query(context.Background(), PageInput{})
	require.Error(t, err)
}
