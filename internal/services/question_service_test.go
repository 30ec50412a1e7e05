package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoointerview/internal/models"
	"github.com/yoockh/yoointerview/internal/questions"
	"github.com/yoockh/yoointerview/internal/utils"
)

func TestQuestionService_BankPrefersRepository(t *testing.T) {
	repo := &fakeQuestionRepo{banks: map[string][]models.QuestionBankEntry{
		"backend developer": {{Role: "backend developer", Position: 1, QuestionID: 7, Text: "Explain idempotency.", ExpectedPoints: []string{"Retries"}, TimeLimitSeconds: 90}},
	}}
	c := newMemoryCache()
	svc := NewQuestionService(repo, c, questions.Seed(), 0, nullLogger())

	bank, err := svc.Bank(context.Background(), " Backend  Developer")
	require.NoError(t, err)
	assert.Equal(t, "backend developer", bank.Role)
	assert.False(t, bank.Fallback)
	require.Len(t, bank.Questions, 1)
	assert.Equal(t, 7, bank.Questions[0].ID)
	assert.Equal(t, []string{"Retries"}, bank.Questions[0].ExpectedPoints)

	_, err = svc.Bank(context.Background(), "backend developer")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads)
}

func TestQuestionService_BankFallsBackToCatalog(t *testing.T) {
	repo := &fakeQuestionRepo{err: errors.New("connection refused")}
	svc := NewQuestionService(repo, nil, questions.Seed(), 0, nullLogger())

	bank, err := svc.Bank(context.Background(), "Astronaut")
	require.NoError(t, err)
	assert.True(t, bank.Fallback)
	assert.NotEmpty(t, bank.Questions)
}

func TestQuestionService_ReplaceInvalidatesCache(t *testing.T) {
	repo := &fakeQuestionRepo{}
	c := newMemoryCache()
	svc := NewQuestionService(repo, c, questions.Catalog{}, 0, nullLogger())
	ctx := context.Background()

	before, err := svc.Bank(ctx, "data engineer")
	require.NoError(t, err)
	assert.True(t, before.Fallback)

	_, err = svc.Replace(ctx, "Data Engineer", []questions.Question{
		{Text: "Design a batch pipeline.", TimeLimitSeconds: 120},
	})
	require.NoError(t, err)
	require.Len(t, repo.banks["data engineer"], 1)
	assert.Equal(t, 1, repo.banks["data engineer"][0].QuestionID)

	after, err := svc.Bank(ctx, "data engineer")
	require.NoError(t, err)
	assert.False(t, after.Fallback)
	assert.Equal(t, "Design a batch pipeline.", after.Questions[0].Text)

	roles, err := svc.Roles(ctx)
	require.NoError(t, err)
	assert.Contains(t, roles, "data engineer")
}

func TestQuestionService_ReplaceValidates(t *testing.T) {
	svc := NewQuestionService(&fakeQuestionRepo{}, nil, nil, 0, nullLogger())
	ctx := context.Background()

	_, err := svc.Replace(ctx, "", []questions.Question{{Text: "x", TimeLimitSeconds: 10}})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Replace(ctx, "qa", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Replace(ctx, "qa", []questions.Question{{Text: "x"}})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	noRepo := NewQuestionService(nil, nil, nil, 0, nullLogger())
	_, err = noRepo.Replace(ctx, "qa", []questions.Question{{Text: "x", TimeLimitSeconds: 10}})
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}
