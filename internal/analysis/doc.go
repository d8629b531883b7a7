// Package analysis computes the descriptive statistics behind the restaurant
// charts: grouped box-plot summaries, kernel density curves for violin plots,
// and the value-for-money scatter series.
//
// Everything here is a pure function of its inputs. Results are plain data;
// drawing them is the consumer's job.
//
// # Quantiles
//
// Quartiles use linear interpolation between order statistics of the sorted
// sample (Hyndman & Fan type 7): the p-quantile sits at position p·(n−1).
// For [1 2 3 4] that gives Q1=1.75, median=2.5, Q3=3.25.
//
// # Density
//
// Violin curves use the Epanechnikov kernel with bandwidth h,
//
//	K_h(d) = 0.75·(1 − (d/h)²) / h   for |d/h| ≤ 1, else 0,
//
// averaged (not summed) over the sample at each grid point. All groups share
// one evaluation grid spanning the global range, so curves are comparable on a
// common axis and a single MaxDensity can size every violin.
package analysis
