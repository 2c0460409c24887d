package source

import "testing"

func TestSingleNaming(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		ok    bool
	}{
		{"frame001.png", "001", true},
		{"FRAME12.JPG", "12", true},
		{"42.png", "42", true},
		{"shot7.v2.png", "7", true},
		{"frame.png", "", false},
		{"frame001", "", false},
		{"readme.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer, frame, ok := SingleNaming{}.Parse(tt.name)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if layer != SingleLayer {
				t.Errorf("Expected layer %q, got %q", SingleLayer, layer)
			}
			if frame != tt.frame {
				t.Errorf("Expected frame %q, got %q", tt.frame, frame)
			}
		})
	}
}

func TestMultiNaming(t *testing.T) {
	tests := []struct {
		name  string
		layer string
		frame string
		ok    bool
	}{
		{"layer1_frame01.png", "1", "01", true},
		{"Layer02_Frame003.PNG", "02", "003", true},
		{"layer_bg3_frame_x9.png", "3", "9", true},
		{"layer10_frame2", "10", "2", true},
		{"frame01.png", "", "", false},
		{"layer1-frame01.png", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer, frame, ok := MultiNaming{}.Parse(tt.name)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && (layer != tt.layer || frame != tt.frame) {
				t.Errorf("Expected %s/%s, got %s/%s", tt.layer, tt.frame, layer, frame)
			}
		})
	}
}

func TestSplitNaming(t *testing.T) {
	layer, frame, ok := SplitNaming{}.Parse("layer05.png")
	if !ok || layer != SplitLayers || frame != "05" {
		t.Errorf("Expected layers/05, got %s/%s (ok=%v)", layer, frame, ok)
	}

	layer, frame, ok = SplitNaming{}.Parse("sky12.png")
	if !ok || layer != SplitFrames || frame != "12" {
		t.Errorf("Expected frames/12, got %s/%s (ok=%v)", layer, frame, ok)
	}

	// The prefix test is case sensitive.
	layer, _, _ = SplitNaming{}.Parse("Layer05.png")
	if layer != SplitFrames {
		t.Errorf("Expected Layer05 in %s, got %s", SplitFrames, layer)
	}

	if _, _, ok := (SplitNaming{}).Parse("layer.png"); ok {
		t.Error("Expected name without ordinal to be rejected")
	}
}

func TestNamingRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"single", false},
		{"", false},
		{"multi", false},
		{"split", false},
		{"sprites", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			naming, err := NewNaming(tt.variant)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil || naming == nil {
				t.Errorf("Unexpected result: %v, %v", naming, err)
			}
		})
	}
}
