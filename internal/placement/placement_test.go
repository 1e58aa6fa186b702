package placement

import (
	"math"
	"testing"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/stretchr/testify/require"
)

func dims(w, h int) model.Dimensions {
	return model.Dimensions{Width: w, Height: h}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		req  model.PlacementRequest
		want model.PlacementResult
	}{
		{
			name: "bottom-right with padding",
			req: model.PlacementRequest{
				BaseSize:          dims(1000, 800),
				WatermarkSize:     dims(400, 100),
				CoverPercentage:   20,
				Position:          "Bottom-Right",
				PaddingPercentage: 4,
			},
			want: model.PlacementResult{DestWidth: 200, DestHeight: 50, X: 760, Y: 710},
		},
		{
			name: "empty position is centered, half rounds away from zero",
			req: model.PlacementRequest{
				BaseSize:        dims(500, 500),
				WatermarkSize:   dims(200, 100),
				CoverPercentage: 50,
			},
			want: model.PlacementResult{DestWidth: 250, DestHeight: 125, X: 125, Y: 188},
		},
		{
			name: "unmatched keyword stays centered and ignores padding",
			req: model.PlacementRequest{
				BaseSize:          dims(500, 500),
				WatermarkSize:     dims(200, 100),
				CoverPercentage:   50,
				Position:          "centre",
				PaddingPercentage: 10,
			},
			want: model.PlacementResult{DestWidth: 250, DestHeight: 125, X: 125, Y: 188},
		},
		{
			name: "top-left",
			req: model.PlacementRequest{
				BaseSize:          dims(600, 400),
				WatermarkSize:     dims(100, 50),
				CoverPercentage:   50,
				Position:          "top-left",
				PaddingPercentage: 10,
			},
			want: model.PlacementResult{DestWidth: 300, DestHeight: 150, X: 60, Y: 60},
		},
		{
			name: "single vertical token keeps centered x",
			req: model.PlacementRequest{
				BaseSize:          dims(600, 400),
				WatermarkSize:     dims(100, 50),
				CoverPercentage:   50,
				Position:          "TOP",
				PaddingPercentage: 10,
			},
			want: model.PlacementResult{DestWidth: 300, DestHeight: 150, X: 150, Y: 60},
		},
		{
			name: "left and right together - right wins",
			req: model.PlacementRequest{
				BaseSize:          dims(600, 400),
				WatermarkSize:     dims(100, 50),
				CoverPercentage:   50,
				Position:          "left-or-right",
				PaddingPercentage: 10,
			},
			want: model.PlacementResult{DestWidth: 300, DestHeight: 150, X: 240, Y: 125},
		},
		{
			name: "vertical padding is taken from base width",
			req: model.PlacementRequest{
				BaseSize:          dims(1000, 200),
				WatermarkSize:     dims(100, 10),
				CoverPercentage:   10,
				Position:          "bottom",
				PaddingPercentage: 5,
			},
			want: model.PlacementResult{DestWidth: 100, DestHeight: 10, X: 450, Y: 140},
		},
		{
			name: "oversized cover gives negative offsets",
			req: model.PlacementRequest{
				BaseSize:        dims(200, 100),
				WatermarkSize:   dims(100, 100),
				CoverPercentage: 150,
				Position:        "centre",
			},
			want: model.PlacementResult{DestWidth: 300, DestHeight: 300, X: -50, Y: -100},
		},
		{
			name: "tiny cover rounds to zero width",
			req: model.PlacementRequest{
				BaseSize:        dims(10, 10),
				WatermarkSize:   dims(100, 100),
				CoverPercentage: 1,
			},
			want: model.PlacementResult{DestWidth: 0, DestHeight: 0, X: 5, Y: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_ZeroWatermarkWidth(t *testing.T) {
	_, err := Compute(model.PlacementRequest{
		BaseSize:        dims(100, 100),
		WatermarkSize:   dims(0, 10),
		CoverPercentage: 50,
	})
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestCompute_FullCoverKeepsAspectRatio(t *testing.T) {
	cases := [][4]int{
		{333, 200, 7, 3},
		{1920, 1080, 640, 480},
		{101, 57, 13, 29},
	}

	for _, c := range cases {
		res, err := Compute(model.PlacementRequest{
			BaseSize:        dims(c[0], c[1]),
			WatermarkSize:   dims(c[2], c[3]),
			CoverPercentage: 100,
		})
		require.NoError(t, err)
		require.Equal(t, c[0], res.DestWidth)

		wantRatio := float64(c[3]) / float64(c[2])
		gotRatio := float64(res.DestHeight) / float64(res.DestWidth)
		require.InDelta(t, wantRatio, gotRatio, 1/float64(res.DestWidth))
	}
}

func TestCompute_CenteredWithinRounding(t *testing.T) {
	for _, pos := range []string{"", "centre", "middle"} {
		res, err := Compute(model.PlacementRequest{
			BaseSize:        dims(777, 555),
			WatermarkSize:   dims(123, 45),
			CoverPercentage: 33,
			Position:        pos,
		})
		require.NoError(t, err)

		cx := float64(res.X) + float64(res.DestWidth)/2
		cy := float64(res.Y) + float64(res.DestHeight)/2
		require.LessOrEqual(t, math.Abs(cx-777.0/2), 1.0)
		require.LessOrEqual(t, math.Abs(cy-555.0/2), 1.0)
	}
}

func TestCompute_EdgeSnap(t *testing.T) {
	base := dims(900, 700)
	pad := int(math.Round(900 * 3 / 100.0))

	left, err := Compute(model.PlacementRequest{BaseSize: base, WatermarkSize: dims(50, 20), CoverPercentage: 25, Position: "Left", PaddingPercentage: 3})
	require.NoError(t, err)
	require.Equal(t, pad, left.X)

	right, err := Compute(model.PlacementRequest{BaseSize: base, WatermarkSize: dims(50, 20), CoverPercentage: 25, Position: "RIGHT", PaddingPercentage: 3})
	require.NoError(t, err)
	require.Equal(t, base.Width-right.DestWidth-pad, right.X)

	top, err := Compute(model.PlacementRequest{BaseSize: base, WatermarkSize: dims(50, 20), CoverPercentage: 25, Position: "top", PaddingPercentage: 3})
	require.NoError(t, err)
	require.Equal(t, pad, top.Y)

	bottom, err := Compute(model.PlacementRequest{BaseSize: base, WatermarkSize: dims(50, 20), CoverPercentage: 25, Position: "Bottom", PaddingPercentage: 3})
	require.NoError(t, err)
	require.Equal(t, base.Height-bottom.DestHeight-pad, bottom.Y)
}

func TestCompute_Deterministic(t *testing.T) {
	req := model.PlacementRequest{
		BaseSize:          dims(1280, 720),
		WatermarkSize:     dims(300, 90),
		CoverPercentage:   17,
		Position:          "bottom-left",
		PaddingPercentage: 2,
	}

	first, err := Compute(req)
	require.NoError(t, err)
	second, err := Compute(req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
