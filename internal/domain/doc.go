// Package domain models NASA POWER point weather data and the pure
// transforms that turn it into human-meaningful condition reports.
//
// # Data Source
//
// Time series arrive from the backend data service as the dictionary form of
// an xarray Dataset: a "coords.time.data" axis plus "data_vars.{name}.data"
// arrays index-aligned to it. Variable names follow the NASA POWER / MERRA-2
// conventions:
//
//	T2M         2-meter air temperature, °C
//	U10M, V10M  10-meter zonal/meridional wind components, m/s
//	PS          surface pressure (unit varies by source, see below)
//	PRECTOTCORR corrected total precipitation, mm
//	RH2M        2-meter relative humidity, percent (optional)
//
// # Pressure Units
//
// Upstream sources disagree on the unit of PS: NASA POWER daily files report
// kilopascals, MERRA-2 OPeNDAP reports pascals, and some climatology
// fallbacks report hectopascals directly. [NormalizePressure] disambiguates
// by magnitude: values above 2000 are pascals, values below 200 are
// kilopascals, anything between is already hPa. The heuristic is safe because
// surface pressure on Earth stays within roughly 870–1085 hPa.
//
// # Condition Classification
//
// [Classify] maps a single observation to one of fourteen condition tags via
// an ordered, mutually exclusive rule list; the first matching rule wins and
// the order is part of the contract, since several predicates can hold at
// once (a hot, humid, rainy afternoon must read as rain, not heat).
// Precipitation rules come first, then wind, temperature, humidity, and the
// sky-cover fallbacks. The function is total: every input combination yields
// exactly one tag.
//
// # Daily Aggregation
//
// [AggregateDaily] groups samples by their UTC calendar date. Temperature is
// averaged over the samples that carry one; a day with no valid temperature
// keeps NaN as an explicit "unavailable" marker rather than collapsing to
// zero. Wind is the mean of per-sample speeds sqrt(u²+v²), not the speed of
// the mean components, so opposing winds do not cancel out. Humidity is
// stored upstream as a percentage and averaged as a fraction. Precipitation
// is summed. The result is ordered by date ascending and truncated to the
// most recent seven days.
//
// # Thresholds
//
// [ComputeThresholds] derives location- and season-adjusted exceedance
// boundaries ("how hot counts as hot here, this month") that callers feed to
// the statistics backend when phrasing probability queries. The thresholds
// are boundaries only; probability computation stays upstream.
package domain
