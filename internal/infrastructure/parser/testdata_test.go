package parser

const tableListing = `<html><body>
<table class="papers"><tbody>
<tr><td class="paper-id">A</td><td class="title"><a href="/papers/a.html">Paper A</a></td><td class="scores">3, 4</td><td class="comments">solid</td><td class="decision">Accept</td></tr>
<tr><td class="paper-id">X</td><td class="title">Broken</td><td class="scores">n/a</td><td class="comments"></td><td class="decision"></td></tr>
<tr><td class="paper-id">B</td><td class="title">Paper B</td><td class="scores">5;2</td><td class="comments">needs work</td><td class="decision">Reject</td></tr>
</tbody></table>
</body></html>`

const miccai2024Page = `<html><head><title>Fallback title</title></head><body>
<h1 class="post-title">Deep   Segmentation of Things</h1>
<div class="post-tags"><a class="post-category">Alice Smith</a><a class="post-category">Bob Jones</a></div>
<div class="post-categories"><a class="post-category">Segmentation</a><a class="post-category">MRI</a><a class="post-category">MRI</a></div>
<h1 id="abstract-id">Abstract</h1>
<p>We segment things.</p>
<h1 id="link-id">Links to Paper and Supplementary Materials</h1>
<p>Main Paper (Open Access Version): <a href="paper/0042_paper.pdf">PDF</a></p>
<h1 id="code-id">Link to the Code Repository</h1>
<p>https://github.com/example/seg</p>
<h1 id="dataset-id">Link to the Dataset(s)</h1>
<p>N/A</p>
<h1 id="bibtex-id">BibTex</h1>
<pre><code>@InProceedings{Smith2024,
  title = {Deep}
}</code></pre>
<h1 id="reviews-id">Reviews</h1>
<h3 id="review-1">Review #1</h3>
<ul>
<li><strong>Please describe the contribution:</strong><blockquote><p>A model.</p></blockquote></li>
<li><strong>Please list the main weaknesses:</strong><blockquote><p>Small dataset.</p></blockquote></li>
<li><strong>Please provide your overall score:</strong><blockquote><p>Weak Accept: could be accepted (4)</p></blockquote></li>
</ul>
<h3 id="review-2">Review #2</h3>
<ul>
<li><strong>Please list the main weaknesses</strong><blockquote><p>No ablation.</p></blockquote></li>
<li><strong>Please provide your overall score</strong><blockquote><p>Accept (5)</p></blockquote></li>
</ul>
<h1 id="authorFeedback-id">Author Feedback</h1>
<blockquote><p>Thanks.</p></blockquote>
<h1 id="metareview-id">Meta-Review</h1>
<h2 id="meta-review-1">Meta-review #1</h2>
<ul><li><strong>What is your decision?</strong><blockquote><p>Accept</p></blockquote></li></ul>
</body></html>`

const miccai2023Page = `<html><head><title>Older Layout Paper</title></head><body>
<h1 id="author-id">Authors</h1>
<p>Carol White, Dan Brown</p>
<h1 id="abstract-id">Abstract</h1>
<p>Older abstract.</p>
<h3 id="review-1">Review 1</h3>
<ul>
<li><strong>Overall score:</strong> 3</li>
<li><strong>Weaknesses:</strong> Limited evaluation.</li>
</ul>
<h3 id="review-2">Review 2</h3>
<ul>
<li><strong>Overall score:</strong> 2.5</li>
</ul>
<h1 id="metareview-id">Meta-review</h1>
<ul>
<li><strong>Decision:</strong> Reject</li>
</ul>
</body></html>`

const miccaiListing = `<html><body>
<a href="index.html">Home</a>
<a href="0042-Paper0042.html">Paper 42</a>
<a href="0042-Paper0042.html#reviews">Paper 42 reviews</a>
<a href="0043-Paper0043.html">Paper 43</a>
<a href="https://PAPERS.miccai.org/miccai-2024/0043-Paper0043.html">Paper 43 mirror</a>
</body></html>`

const miccaiJustifiedPage = `<html><body>
<h1 class="post-title">Justified Scores</h1>
<h3 id="review-1">Review #1</h3>
<ul>
<li><strong>Please justify your recommendation and overall score:</strong><blockquote><p>Results on 2 datasets are strong.</p></blockquote></li>
<li><strong>Please provide your overall score:</strong><blockquote><p>Accept (5)</p></blockquote></li>
</ul>
<h3 id="review-2">Review #2</h3>
<ul>
<li><strong>Please provide your overall score:</strong><blockquote><p>3</p></blockquote></li>
<li><strong>Please justify your overall score:</strong><blockquote><p>Only 1 baseline was compared.</p></blockquote></li>
</ul>
</body></html>`
