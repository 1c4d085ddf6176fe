// Package io exports network summaries as JSON and CSV.
//
// # JSON Format
//
// The JSON document lists nodes in display order and edges sorted by
// treatment pair:
//
//	{
//	  "nodes": [
//	    {"treatment": "Placebo", "class": "Placebo", "n_total": 80, "studies": 2, "rank": 0, "listed": true},
//	    {"treatment": "DrugA", "class": "Other", "n_total": 83, "studies": 2, "rank": 1, "listed": true}
//	  ],
//	  "edges": [
//	    {"t1": "DrugA", "t2": "Placebo", "k": 2, "n_sum": 163}
//	  ]
//	}
//
// # CSV Format
//
// [WriteEdgesCSV] writes the columns t1,t2,k,n_sum and [WriteNodesCSV] the
// columns treatment,class,n_total,studies,rank,listed. Both include a header.
package io
