package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountFromUser(t *testing.T) {
	school := uint(7)

	tests := []struct {
		name    string
		user    User
		want    Account
		wantErr bool
	}{
		{
			name: "master admin",
			user: User{BaseModel: BaseModel{ID: 1}, Username: "root", Role: RoleMasterAdmin},
			want: MasterAdmin{Identity: Identity{UserID: 1, Username: "root"}},
		},
		{
			name:    "master admin bound to a school",
			user:    User{Role: RoleMasterAdmin, SchoolID: &school},
			wantErr: true,
		},
		{
			name: "teacher",
			user: User{BaseModel: BaseModel{ID: 2}, Username: "rao", Name: "Mrs Rao", Role: RoleTeacher, SchoolID: &school},
			want: Teacher{Identity: Identity{UserID: 2, Username: "rao", Name: "Mrs Rao"}, SchoolID: 7},
		},
		{
			name:    "teacher without school",
			user:    User{Role: RoleTeacher},
			wantErr: true,
		},
		{
			name: "student",
			user: User{BaseModel: BaseModel{ID: 3}, Role: RoleStudent, SchoolID: &school, ClassName: "5"},
			want: Student{Identity: Identity{UserID: 3}, SchoolID: 7, ClassName: "5"},
		},
		{
			name:    "student without class",
			user:    User{Role: RoleStudent, SchoolID: &school},
			wantErr: true,
		},
		{
			name:    "unknown role",
			user:    User{Role: "parent", SchoolID: &school},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AccountFromUser(&tt.user)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAccount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchoolOf(t *testing.T) {
	id, ok := SchoolOf(SchoolAdmin{SchoolID: 4})
	assert.True(t, ok)
	assert.Equal(t, uint(4), id)

	_, ok = SchoolOf(MasterAdmin{})
	assert.False(t, ok)
}
