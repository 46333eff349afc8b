package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "quiz",
			objectType:  "session",
			identifier:  "123",
			paramsKey:   nil,
			expectedKey: "learninghour:quiz:session:123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "quiz",
			objectType:  "session",
			identifier:  "123",
			paramsKey:   []string{},
			expectedKey: "learninghour:quiz:session:123",
		},
		{
			name:        "with one paramsKey",
			serviceName: "dashboard",
			objectType:  "leaderboard",
			identifier:  "global",
			paramsKey:   []string{"weekly"},
			expectedKey: "learninghour:dashboard:leaderboard:global:weekly",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "quiz",
			objectType:  "video_finished",
			identifier:  "user1",
			paramsKey:   []string{"module1", "v2"},
			expectedKey: "learninghour:quiz:video_finished:user1:module1_v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestKeyBuilders(t *testing.T) {
	if got, want := QuizSessionKey("s1"), "learninghour:quiz:session:s1"; got != want {
		t.Errorf("QuizSessionKey() = %v, want %v", got, want)
	}
	if got, want := VideoFinishedKey("u1", "m1"), "learninghour:quiz:video_finished:u1:m1"; got != want {
		t.Errorf("VideoFinishedKey() = %v, want %v", got, want)
	}
	if got, want := LeaderboardKey(), "learninghour:dashboard:leaderboard:global"; got != want {
		t.Errorf("LeaderboardKey() = %v, want %v", got, want)
	}
}
