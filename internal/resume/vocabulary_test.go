package resume

import (
	"reflect"
	"testing"
)

func TestWordTermsIn(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			"whole words only",
			"A rapidly growing company. Interested candidates welcome.",
			[]string{},
		},
		{
			"javascript is not java",
			"Deep JavaScript expertise required.",
			[]string{"javascript"},
		},
		{
			"postgresql is not sql",
			"We run PostgreSQL in production.",
			[]string{"postgresql"},
		},
		{
			"plain hits",
			"Python and Docker experience with Kubernetes.",
			[]string{"docker", "kubernetes", "python"},
		},
		{
			"symbol languages survive tokenization",
			"Services in C# and C++.",
			[]string{"c#", "c++"},
		},
		{
			"slashed terms match across tokens",
			"You will own our CI/CD pipelines.",
			[]string{"ci/cd"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WordTermsIn(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("WordTermsIn(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}
