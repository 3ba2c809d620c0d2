package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/courseadvisor/core/notify"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, n notify.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func TestEngineRun_NotifiesOnlyIdentifiedStudents(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.MatchedBy(func(msg notify.Notification) bool {
		return msg.StudentID == "stu-9" && msg.Shortfall == 0 && msg.Schedule.TotalCredits == 7
	})).Return(nil).Once()
	e.SetNotifier(n)

	_, err := e.Run(context.Background(), Request{Preferences: sampleScenarioPrefs(), RequiredCredits: 7})
	require.NoError(t, err)
	res, err := e.Run(context.Background(), Request{StudentID: "stu-9", Preferences: sampleScenarioPrefs(), RequiredCredits: 7})
	require.NoError(t, err)

	n.AssertExpectations(t)
	n.AssertNumberOfCalls(t, "Notify", 1)
	assert.Equal(t, res.RequestID, n.Calls[0].Arguments.Get(1).(notify.Notification).RequestID)
}
