package ops

import (
	"strings"
	"testing"
)

func TestEncodeTransitionKey(t *testing.T) {
	tests := []struct {
		name         string
		transitionID int
		actionID     int
		targetRC     int
		node         string
		want         string
		wantErr      bool
	}{
		{
			name:         "short node is padded to 36",
			transitionID: 5,
			actionID:     12,
			targetRC:     0,
			node:         "node1",
			want:         "12:5:0:node1                               ",
		},
		{
			name:         "uuid-sized node is unchanged",
			transitionID: 3,
			actionID:     7,
			targetRC:     8,
			node:         "c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
			want:         "7:3:8:c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
		},
		{
			name:         "long node is not truncated",
			transitionID: 1,
			actionID:     2,
			targetRC:     0,
			node:         strings.Repeat("n", 40),
			want:         "2:1:0:" + strings.Repeat("n", 40),
		},
		{
			name:         "negative ids",
			transitionID: -1,
			actionID:     -1,
			targetRC:     -1,
			node:         "node1",
			want:         "-1:-1:-1:node1                               ",
		},
		{
			name:    "missing node",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeTransitionKey(tt.transitionID, tt.actionID, tt.targetRC, tt.node)
			if tt.wantErr {
				if err == nil {
					t.Fatal("EncodeTransitionKey() error = nil, want error")
				}
				if !IsInvalidArgument(err) {
					t.Errorf("error = %v, want invalid-argument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeTransitionKey() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeTransitionKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeTransitionKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    TransitionKey
		wantErr bool
	}{
		{
			name: "uuid-sized node",
			key:  "7:3:8:c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
			want: TransitionKey{
				TransitionID: 3,
				ActionID:     7,
				TargetRC:     8,
				NodeUUID:     "c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
			},
		},
		{
			name: "padded short node decodes without padding",
			key:  "12:5:0:node1                               ",
			want: TransitionKey{
				TransitionID: 5,
				ActionID:     12,
				TargetRC:     0,
				NodeUUID:     "node1",
			},
		},
		{
			name: "node beyond 36 characters is truncated by the read",
			key:  "2:1:0:" + strings.Repeat("n", 40),
			want: TransitionKey{
				TransitionID: 1,
				ActionID:     2,
				TargetRC:     0,
				NodeUUID:     strings.Repeat("n", 36),
			},
		},
		{
			name: "negative ids",
			key:  "-1:-1:-1:node1",
			want: TransitionKey{
				TransitionID: -1,
				ActionID:     -1,
				TargetRC:     -1,
				NodeUUID:     "node1",
			},
		},
		{
			name:    "only three fields",
			key:     "1:2:3",
			wantErr: true,
		},
		{
			name:    "empty key",
			key:     "",
			wantErr: true,
		},
		{
			name:    "non-numeric field",
			key:     "a:2:3:node1",
			wantErr: true,
		},
		{
			name:    "wrong separator",
			key:     "1;2;3;node1",
			wantErr: true,
		},
		{
			name:    "missing node field",
			key:     "1:2:3:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTransitionKey(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeTransitionKey(%q) error = nil, want error", tt.key)
				}
				if !IsInvalidFormat(err) {
					t.Errorf("error = %v, want invalid-format", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeTransitionKey(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("DecodeTransitionKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestTransitionKeyRoundTrip(t *testing.T) {
	tests := []struct {
		transitionID int
		actionID     int
		targetRC     int
		node         string
	}{
		{5, 12, 0, "node1"},
		{3, 7, 8, "c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84"},
		{0, 0, 0, "n"},
		{-1, -1, -1, "offline-node"},
	}

	for _, tt := range tests {
		key, err := EncodeTransitionKey(tt.transitionID, tt.actionID, tt.targetRC, tt.node)
		if err != nil {
			t.Fatalf("EncodeTransitionKey() error = %v", err)
		}
		got, err := DecodeTransitionKey(key)
		if err != nil {
			t.Fatalf("DecodeTransitionKey(%q) error = %v", key, err)
		}
		want := TransitionKey{
			TransitionID: tt.transitionID,
			ActionID:     tt.actionID,
			TargetRC:     tt.targetRC,
			NodeUUID:     tt.node,
		}
		if got != want {
			t.Errorf("round trip of %q = %+v, want %+v", key, got, want)
		}
	}
}

func TestEncodeTransitionMagic(t *testing.T) {
	got, err := EncodeTransitionMagic(ExecDone, 0, 5, 12, 0, "node1")
	if err != nil {
		t.Fatalf("EncodeTransitionMagic() error = %v", err)
	}
	want := "0:0;12:5:0:node1                               "
	if got != want {
		t.Errorf("EncodeTransitionMagic() = %q, want %q", got, want)
	}

	if _, err := EncodeTransitionMagic(ExecDone, 0, 5, 12, 0, ""); !IsInvalidArgument(err) {
		t.Errorf("missing node error = %v, want invalid-argument", err)
	}
}

func TestDecodeTransitionMagic(t *testing.T) {
	tests := []struct {
		name    string
		magic   string
		want    TransitionMagic
		wantErr bool
	}{
		{
			name:  "complete magic",
			magic: "0:0;12:5:0:c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
			want: TransitionMagic{
				OpStatus: ExecDone,
				OpRC:     0,
				Key: TransitionKey{
					TransitionID: 5,
					ActionID:     12,
					TargetRC:     0,
					NodeUUID:     "c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
				},
			},
		},
		{
			name:  "failure magic with negative status",
			magic: "4:1;3:10:0;c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
			// The key suffix is malformed (wrong separator), so the
			// whole magic fails even though the prefix scanned.
			wantErr: true,
		},
		{
			name:    "missing key suffix",
			magic:   "0:0;",
			wantErr: true,
		},
		{
			name:    "only one field",
			magic:   "0",
			wantErr: true,
		},
		{
			name:    "empty magic",
			magic:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			magic:   "not-a-magic",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTransitionMagic(tt.magic)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeTransitionMagic(%q) error = nil, want error", tt.magic)
				}
				if !IsInvalidFormat(err) {
					t.Errorf("error = %v, want invalid-format", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeTransitionMagic(%q) error = %v", tt.magic, err)
			}
			if got != tt.want {
				t.Errorf("DecodeTransitionMagic(%q) = %+v, want %+v", tt.magic, got, tt.want)
			}
		})
	}
}

func TestTransitionMagicRoundTrip(t *testing.T) {
	tests := []struct {
		opStatus     ExecStatus
		opRC         int
		transitionID int
		actionID     int
		targetRC     int
		node         string
	}{
		{ExecDone, 0, 5, 12, 0, "node1"},
		{ExecError, 1, 3, 7, 8, "c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84"},
		{ExecPending, -1, 0, 0, 0, "standby"},
		{ExecTimeout, 198, 42, 9, 7, "remote-node-1"},
	}

	for _, tt := range tests {
		magic, err := EncodeTransitionMagic(tt.opStatus, tt.opRC,
			tt.transitionID, tt.actionID, tt.targetRC, tt.node)
		if err != nil {
			t.Fatalf("EncodeTransitionMagic() error = %v", err)
		}
		got, err := DecodeTransitionMagic(magic)
		if err != nil {
			t.Fatalf("DecodeTransitionMagic(%q) error = %v", magic, err)
		}
		want := TransitionMagic{
			OpStatus: tt.opStatus,
			OpRC:     tt.opRC,
			Key: TransitionKey{
				TransitionID: tt.transitionID,
				ActionID:     tt.actionID,
				TargetRC:     tt.targetRC,
				NodeUUID:     tt.node,
			},
		}
		if got != want {
			t.Errorf("round trip of %q = %+v, want %+v", magic, got, want)
		}
	}
}
