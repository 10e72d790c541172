// Package batch provides concurrent processing of multiple crawl seeds.
//
// Each seed gets its own independent crawler and index, so the strictly
// sequential nature of a single-site crawl is preserved; only the
// scheduling across seeds is concurrent.
package batch
