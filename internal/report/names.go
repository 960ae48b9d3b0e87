package report

import (
	"strings"
	"unicode"
)

// featureNames maps extractor feature keys to display labels.
var featureNames = map[string]string{
	"glcm_ASM":           "GLCM Angular Second Moment (Homogeneity)",
	"glcm_contrast":      "GLCM Contrast (Texture Roughness)",
	"glcm_correlation":   "GLCM Correlation (Pixel Dependency)",
	"glcm_variance":      "GLCM Variance (Gray-Level Spread)",
	"glcm_IDM":           "GLCM Inverse Difference Moment (Uniformity)",
	"glcm_sum_avg":       "GLCM Sum Average",
	"glcm_sum_var":       "GLCM Sum Variance",
	"glcm_sum_entropy":   "GLCM Sum Entropy (Complexity)",
	"glcm_entropy":       "GLCM Entropy (Randomness)",
	"glcm_diff_var":      "GLCM Difference Variance",
	"glcm_diff_entropy":  "GLCM Difference Entropy",
	"glcm_IMC1":          "GLCM Info Measure of Correlation 1",
	"glcm_IMC2":          "GLCM Info Measure of Correlation 2",
	"glcm_direction_var": "GLCM Directional Variance",

	"hist_mean":     "Histogram Mean Intensity (μ)",
	"hist_std":      "Histogram Standard Deviation (σ)",
	"hist_skew":     "Histogram Skewness (Asymmetry)",
	"hist_kurtosis": "Histogram Kurtosis (Peak Sharpness)",
	"hist_q25":      "Histogram 25th Percentile (Q1)",
	"hist_q50":      "Histogram Median (Q2)",
	"hist_q75":      "Histogram 75th Percentile (Q3)",
	"density_index": "Tissue Density Index",

	"edge_sobel_mean":     "Mean Edge Strength (Sobel)",
	"edge_sobel_std":      "Edge Strength Variability (Sobel)",
	"edge_ratio":          "Edge Ratio",
	"grad_coherence_mean": "Gradient Coherence Mean",
	"grad_coherence_std":  "Gradient Coherence Std",
	"sharp_lap_var":       "Laplacian Variance (Sharpness)",

	"shape_area":         "Shape Area (pixels²)",
	"shape_perimeter":    "Shape Perimeter (pixels)",
	"shape_circularity":  "Shape Circularity",
	"shape_eccentricity": "Shape Eccentricity (Elongation)",
	"shape_solidity":     "Shape Solidity",
	"shape_extent":       "Shape Extent Ratio",
	"shape_norm_area":    "Normalized Shape Area",
	"asym_absdiff_mean":  "Asymmetry Abs Diff Mean",
	"asym_absdiff_std":   "Asymmetry Abs Diff Std",
	"asym_mean_diff":     "Asymmetry Mean Difference",

	"blob_count":       "Detected Blob Count",
	"blob_density":     "Blob Density",
	"blob_radius_mean": "Average Blob Radius",
	"blob_radius_std":  "Blob Radius Variability",

	"spic_edge_density":      "Spiculation Edge Density",
	"spic_edge_ring_ratio":   "Spiculation Ring Ratio",
	"spic_orient_dispersion": "Spiculation Orientation Dispersion",

	"texture_disorder":   "Texture Disorder Score",
	"shape_irregularity": "Shape Irregularity Score",
	"spiculation_index":  "Spiculation Index Score",

	"texture_variance": "Texture Variance (Derived)",
	"asymmetry_index":  "Global Asymmetry Index",
	"compactness":      "Lesion Compactness",
	"roughness":        "Surface Roughness Estimate",
}

// metricNames maps benchmark metric keys to display labels.
var metricNames = map[string]string{
	"best_mean":             "Mean Best Fitness",
	"best_std":              "Std Dev (Fitness)",
	"average_eer":           "Mean EER (0-1)",
	"runtime_s":             "Mean Runtime (s)",
	"convergence_rate_mean": "Mean Convergence Rate",
	"convergence_rate_std":  "Std Dev (Conv. Rate)",
}

// FeatureName returns the display label for a feature key, or the key itself.
func FeatureName(key string) string {
	if name, ok := featureNames[key]; ok {
		return name
	}
	return key
}

// MetricName returns the display label for a benchmark metric key. Unknown
// keys are title-cased with underscores replaced by spaces.
func MetricName(key string) string {
	if name, ok := metricNames[key]; ok {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
