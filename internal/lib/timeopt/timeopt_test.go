package timeopt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutes(t *testing.T) {
	tests := []struct {
		name       string
		timeOption string
		want       int
		wantErr    bool
	}{
		{
			name:       "30 минут",
			timeOption: "30 Minutes",
			want:       30,
		},
		{
			name:       "1 час",
			timeOption: "1 Hour",
			want:       60,
		},
		{
			name:       "2 часа",
			timeOption: "2 Hours",
			want:       120,
		},
		{
			name:       "3 часа",
			timeOption: "3 Hours",
			want:       180,
		},
		{
			name:       "нижний регистр",
			timeOption: "45 minutes",
			want:       45,
		},
		{
			name:       "пустая строка",
			timeOption: "",
			wantErr:    true,
		},
		{
			name:       "без числа",
			timeOption: "Hours",
			wantErr:    true,
		},
		{
			name:       "не число",
			timeOption: "abc Hours",
			wantErr:    true,
		},
		{
			name:       "отрицательное значение",
			timeOption: "-5 Minutes",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Minutes(tt.timeOption)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrantDuration(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		unit    string
		want    time.Duration
		wantErr bool
	}{
		{
			name:   "минуты",
			amount: 30,
			unit:   "minutes",
			want:   30 * time.Minute,
		},
		{
			name:   "часы",
			amount: 2,
			unit:   "hours",
			want:   2 * time.Hour,
		},
		{
			name:   "дни",
			amount: 7,
			unit:   "days",
			want:   7 * 24 * time.Hour,
		},
		{
			name:    "неизвестная единица",
			amount:  1,
			unit:    "weeks",
			wantErr: true,
		},
		{
			name:    "нулевое количество",
			amount:  0,
			unit:    "days",
			wantErr: true,
		},
		{
			name:    "отрицательное количество",
			amount:  -3,
			unit:    "hours",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GrantDuration(tt.amount, tt.unit)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
