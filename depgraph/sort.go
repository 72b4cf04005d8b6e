// Copyright © 2024 The ELPS authors

package depgraph

import "sort"

func sortStrings(s []string) {
	sort.Strings(s)
}
