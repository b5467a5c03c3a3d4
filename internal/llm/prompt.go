package llm

// ExtractionPrompt is the instruction sent with a standalone image or a
// rasterized PDF page.
const ExtractionPrompt = "Extract all text and the primary table from this image as a JSON object " +
	"with 'text' and 'table' keys. The 'table' value should be a list of lists."

// EmbeddedImagePrompt is the variant used for images found inside a
// Word document.
const EmbeddedImagePrompt = "This image was embedded in a document. Analyze it for tables. " +
	"Provide output as a JSON object with 'text' and 'table' keys. The 'table' should be a list of lists."
