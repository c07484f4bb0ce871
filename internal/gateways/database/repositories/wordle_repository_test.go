package repositories

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPlayerVersionFilter(t *testing.T) {
	tests := []struct {
		name    string
		version int
		want    bson.M
	}{
		{
			name:    "unversioned record",
			version: 0,
			want:    bson.M{"id": "42", "version": bson.M{"$in": bson.A{0, nil}}},
		},
		{
			name:    "versioned record",
			version: 7,
			want:    bson.M{"id": "42", "version": 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := playerVersionFilter("42", tt.version); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("playerVersionFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}
